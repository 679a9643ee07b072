package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/service"
)

// QueueConsumer is a long running stream reader.
type QueueConsumer interface {
	Run(ctx context.Context) error
}

// StartNotificationWorker registers notification handlers and, when a
// consumer is given, runs it until ctx is done. The returned WaitGroup
// completes once the consumer has stopped.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, consumer QueueConsumer, logger *zap.Logger) *sync.WaitGroup {
	var wg sync.WaitGroup
	if notificationService == nil {
		return &wg
	}
	notificationService.RegisterHandlers()

	if consumer == nil {
		return &wg
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Run(ctx); err != nil {
			logger.Error("queue consumer stopped", zap.Error(err))
		}
	}()
	return &wg
}
