package noop

import (
	"context"
	"log"

	"tillsync/internal/domain"
	"tillsync/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs order notifications
// to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendNewOrderEmail(_ context.Context, toEmail string, order *domain.CanonicalOrder) error {
	log.Printf("[NOOP EMAIL] New %s order #%s for %s: total %s %s",
		order.Method, order.Number, toEmail, order.Total.StringFixed(2), order.Currency)
	return nil
}
