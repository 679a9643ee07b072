package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/config"
	"github.com/motofleet/courier-rental/internal/events"
)

// VehicleRegisteredHandler processes one decoded registration.
type VehicleRegisteredHandler func(ctx context.Context, payload events.VehicleRegisteredPayload) error

// StreamReader is the subset of the Redis client the consumer needs.
type StreamReader interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

// Consumer reads the stream through a consumer group.
type Consumer struct {
	client  StreamReader
	cfg     config.QueueConfig
	handler VehicleRegisteredHandler
	logger  *zap.Logger
}

// NewConsumer builds a consumer delivering to handler.
func NewConsumer(client StreamReader, cfg config.QueueConfig, handler VehicleRegisteredHandler, logger *zap.Logger) *Consumer {
	return &Consumer{client: client, cfg: cfg, handler: handler, logger: logger}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}
	c.logger.Info("queue consumer started",
		zap.String("stream", c.cfg.Stream),
		zap.String("group", c.cfg.Group),
		zap.String("consumer", c.cfg.Consumer))

	for {
		if ctx.Err() != nil {
			return nil
		}
		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.Consumer,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    10,
			Block:    c.cfg.Block(),
		}).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("queue read failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		for _, stream := range streams {
			for _, msg := range stream.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

// process hands one message to the handler and acks it. Messages that cannot
// be decoded are acked so they do not block the group.
func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	payload, err := decode(msg)
	if err != nil {
		c.logger.Error("dropping undecodable message", zap.String("message_id", msg.ID), zap.Error(err))
	} else if err := c.handler(ctx, payload); err != nil {
		c.logger.Warn("vehicle registration handler failed",
			zap.String("message_id", msg.ID),
			zap.String("vehicle_id", payload.VehicleID),
			zap.Error(err))
		return
	}
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
		c.logger.Warn("queue ack failed", zap.String("message_id", msg.ID), zap.Error(err))
	}
}

func decode(msg redis.XMessage) (events.VehicleRegisteredPayload, error) {
	var payload events.VehicleRegisteredPayload
	raw, ok := msg.Values[fieldPayload].(string)
	if !ok {
		return payload, fmt.Errorf("message %s has no %s field", msg.ID, fieldPayload)
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return payload, fmt.Errorf("decode message %s: %w", msg.ID, err)
	}
	return payload, nil
}
