package port

import (
	"context"

	"github.com/google/uuid"

	"tillsync/internal/domain"
)

// DeviceRepository defines the contract for paired device persistence.
type DeviceRepository interface {
	Create(ctx context.Context, device *domain.Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Device, error)
	List(ctx context.Context) ([]domain.Device, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeviceStatus) error
	TouchLastSeen(ctx context.Context, id uuid.UUID) error
}
