package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/motofleet/courier-rental/internal/config"
	"github.com/motofleet/courier-rental/internal/events"
)

func TestNotificationService_VehicleRegistered(t *testing.T) {
	notifier := new(MockNotifier)
	svc := NewNotificationService(nil, notifier, zap.NewNop(), config.NotificationConfig{HighlightYear: 2024})

	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "moto-24") && strings.Contains(msg, "2024")
	})).Return(nil).Once()

	ctx := context.Background()
	require.NoError(t, svc.VehicleRegistered(ctx, events.VehicleRegisteredPayload{VehicleID: "moto-24", Year: 2024, Model: "Sport", Plate: "AAA1A11"}))
	require.NoError(t, svc.VehicleRegistered(ctx, events.VehicleRegisteredPayload{VehicleID: "moto-23", Year: 2023, Model: "Sport", Plate: "BBB1B11"}))

	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestNotificationService_DeliveryFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("503"))
	svc := NewNotificationService(nil, notifier, zap.New(core), config.NotificationConfig{HighlightYear: 2024})

	err := svc.VehicleRegistered(context.Background(), events.VehicleRegisteredPayload{VehicleID: "moto-24", Year: 2024})
	assert.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("notification delivery failed").Len())
}

func TestNotificationService_RentalOverdueNotifies(t *testing.T) {
	dispatcher := newRecordingDispatcher()
	notifier := new(MockNotifier)
	svc := NewNotificationService(dispatcher, notifier, zap.NewNop(), config.NotificationConfig{})
	svc.RegisterHandlers()

	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "r-7") && strings.Contains(msg, "2 day(s) overdue")
	})).Return(nil).Once()

	ctx := context.Background()
	_ = dispatcher.Publish(ctx, events.NewEvent(events.EventRentalOverdue, "r-7", now, events.RentalOverduePayload{
		CourierID: "courier-1", VehicleID: "moto-1", ExpectedReturn: now.AddDate(0, 0, -2), DaysOverdue: 2,
	}))
	_ = dispatcher.Publish(ctx, events.NewEvent(events.EventRentalOpened, "r-8", now, events.RentalOpenedPayload{}))
	_ = dispatcher.Publish(ctx, events.NewEvent(events.EventRentalSettled, "r-8", now, events.RentalSettledPayload{}))

	notifier.AssertExpectations(t)
}

func TestNotificationService_RentalOverdueRejectsForeignPayload(t *testing.T) {
	svc := NewNotificationService(nil, nil, zap.NewNop(), config.NotificationConfig{})
	err := svc.handleRentalOverdue(context.Background(), events.NewEvent(events.EventRentalOverdue, "r-1", now, "oops"))
	assert.Error(t, err)
}

func TestWebhookNotifier_PostsMessage(t *testing.T) {
	received := make(chan map[string]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(body, &payload)
		received <- payload
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.NotificationConfig{WebhookURL: server.URL, TimeoutSeconds: 2}, zap.NewNop())
	require.NoError(t, notifier.Notify(context.Background(), "vehicle moto-1 registered"))

	select {
	case payload := <-received:
		assert.Equal(t, "vehicle moto-1 registered", payload["message"])
	case <-time.After(time.Second):
		t.Fatal("webhook not called")
	}
}

func TestWebhookNotifier_Failures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.NotificationConfig{WebhookURL: server.URL, TimeoutSeconds: 2}, zap.NewNop())
	err := notifier.Notify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, notifier.Notify(ctx, "hello"), context.Canceled)

	disabled := NewWebhookNotifier(config.NotificationConfig{TimeoutSeconds: 2}, zap.NewNop())
	assert.NoError(t, disabled.Notify(context.Background(), "dropped"))
}
