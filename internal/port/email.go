package port

import (
	"context"

	"tillsync/internal/domain"
)

// EmailSender defines the contract for sending order notification emails.
type EmailSender interface {
	SendNewOrderEmail(ctx context.Context, toEmail string, order *domain.CanonicalOrder) error
}
