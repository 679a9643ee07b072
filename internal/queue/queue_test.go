package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/config"
	"github.com/motofleet/courier-rental/internal/events"
)

// fakeStream is an in-process stand-in for a Redis stream with one consumer group.
type fakeStream struct {
	mu       sync.Mutex
	messages []redis.XMessage
	acked    []string
	groupErr error
	reads    int
	onDrain  func()
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := time.Now().Format("150405.000000") + "-0"
	f.messages = append(f.messages, redis.XMessage{ID: id, Values: a.Values.(map[string]interface{})})
	return redis.NewStringResult(id, nil)
}

func (f *fakeStream) XGroupCreateMkStream(context.Context, string, string, string) *redis.StatusCmd {
	return redis.NewStatusResult("OK", f.groupErr)
}

func (f *fakeStream) XReadGroup(_ context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if len(f.messages) == 0 {
		if f.onDrain != nil {
			f.onDrain()
		}
		return redis.NewXStreamSliceCmdResult(nil, redis.Nil)
	}
	batch := f.messages
	f.messages = nil
	return redis.NewXStreamSliceCmdResult([]redis.XStream{{Stream: a.Streams[0], Messages: batch}}, nil)
}

func (f *fakeStream) XAck(_ context.Context, _ string, _ string, ids ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, ids...)
	return redis.NewIntResult(int64(len(ids)), nil)
}

var queueCfg = config.QueueConfig{Stream: "vehicle_registered", Group: "courier-rental", Consumer: "test", BlockSeconds: 1}

func TestPublisherToConsumer(t *testing.T) {
	stream := &fakeStream{}
	publisher := NewPublisher(stream, queueCfg.Stream, zap.NewNop())

	payload := events.VehicleRegisteredPayload{VehicleID: "moto-1", Year: 2024, Model: "Sport", Plate: "ABC1D23"}
	require.NoError(t, publisher.HandleVehicleRegistered(context.Background(),
		events.NewEvent(events.EventVehicleRegistered, "moto-1", time.Now(), payload)))

	var got []events.VehicleRegisteredPayload
	ctx, cancel := context.WithCancel(context.Background())
	stream.onDrain = cancel
	consumer := NewConsumer(stream, queueCfg, func(_ context.Context, p events.VehicleRegisteredPayload) error {
		got = append(got, p)
		return nil
	}, zap.NewNop())

	require.NoError(t, consumer.Run(ctx))
	assert.Equal(t, []events.VehicleRegisteredPayload{payload}, got)
	assert.Len(t, stream.acked, 1)
}

func TestPublisher_RejectsForeignPayload(t *testing.T) {
	publisher := NewPublisher(&fakeStream{}, queueCfg.Stream, zap.NewNop())
	err := publisher.HandleVehicleRegistered(context.Background(),
		events.NewEvent(events.EventVehicleRegistered, "moto-1", time.Now(), "not a payload"))
	assert.Error(t, err)
}

func TestPublisher_SubscribesToDispatcher(t *testing.T) {
	stream := &fakeStream{}
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewPublisher(stream, queueCfg.Stream, zap.NewNop()).Register(dispatcher)

	_ = dispatcher.Publish(context.Background(), events.NewEvent(events.EventVehicleRegistered, "moto-1", time.Now(),
		events.VehicleRegisteredPayload{VehicleID: "moto-1", Year: 2020}))
	dispatcher.Wait()

	stream.mu.Lock()
	defer stream.mu.Unlock()
	assert.Len(t, stream.messages, 1)
}

func TestConsumer_Process(t *testing.T) {
	t.Run("undecodable messages are acked", func(t *testing.T) {
		stream := &fakeStream{}
		called := false
		c := NewConsumer(stream, queueCfg, func(context.Context, events.VehicleRegisteredPayload) error {
			called = true
			return nil
		}, zap.NewNop())

		c.process(context.Background(), redis.XMessage{ID: "1-0", Values: map[string]interface{}{"payload": "{"}})
		c.process(context.Background(), redis.XMessage{ID: "2-0", Values: map[string]interface{}{}})

		assert.False(t, called)
		assert.Equal(t, []string{"1-0", "2-0"}, stream.acked)
	})

	t.Run("handler failures stay pending", func(t *testing.T) {
		stream := &fakeStream{}
		c := NewConsumer(stream, queueCfg, func(context.Context, events.VehicleRegisteredPayload) error {
			return errors.New("webhook down")
		}, zap.NewNop())

		c.process(context.Background(), redis.XMessage{ID: "3-0", Values: map[string]interface{}{"payload": `{"vehicle_id":"moto-1"}`}})
		assert.Empty(t, stream.acked)
	})
}

func TestConsumer_GroupCreation(t *testing.T) {
	busy := &fakeStream{groupErr: errors.New("BUSYGROUP Consumer Group name already exists")}
	ctx, cancel := context.WithCancel(context.Background())
	busy.onDrain = cancel
	c := NewConsumer(busy, queueCfg, func(context.Context, events.VehicleRegisteredPayload) error { return nil }, zap.NewNop())
	assert.NoError(t, c.Run(ctx))

	broken := &fakeStream{groupErr: errors.New("NOAUTH")}
	c = NewConsumer(broken, queueCfg, func(context.Context, events.VehicleRegisteredPayload) error { return nil }, zap.NewNop())
	assert.Error(t, c.Run(context.Background()))
}
