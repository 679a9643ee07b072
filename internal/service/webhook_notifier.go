package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/config"
)

type webhookMessage struct {
	Message string `json:"message"`
}

// WebhookNotifier posts notifications as JSON to a configured URL.
type WebhookNotifier struct {
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewWebhookNotifier builds a notifier. An empty URL disables delivery.
func NewWebhookNotifier(cfg config.NotificationConfig, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:     strings.TrimSpace(cfg.WebhookURL),
		timeout: cfg.Timeout(),
		logger:  logger,
	}
}

// Notify sends {"message": message} and fails on transport errors or non-2xx replies.
func (w *WebhookNotifier) Notify(ctx context.Context, message string) error {
	if w.url == "" {
		w.logger.Debug("webhook url not configured; dropping notification")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(w.url).JSON(webhookMessage{Message: message})
	if w.timeout > 0 {
		agent.Timeout(w.timeout)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("post webhook: %w", errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("webhook responded %d: %s", status, truncate(string(body), 200))
	}

	w.logger.Debug("webhook delivered", zap.Int("status", status))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
