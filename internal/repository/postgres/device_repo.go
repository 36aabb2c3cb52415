package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tillsync/internal/domain"
	"tillsync/internal/port"
)

type deviceRepo struct {
	db *sqlx.DB
}

// NewDeviceRepo creates a new PostgreSQL-backed DeviceRepository.
func NewDeviceRepo(db *sqlx.DB) port.DeviceRepository {
	return &deviceRepo{db: db}
}

func (r *deviceRepo) Create(ctx context.Context, device *domain.Device) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	device.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (id, name, status, last_seen_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		device.ID, device.Name, device.Status, device.LastSeenAt, device.CreatedAt)
	if err != nil {
		return fmt.Errorf("deviceRepo.Create: %w", err)
	}
	return nil
}

func (r *deviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	var device domain.Device
	err := r.db.GetContext(ctx, &device,
		"SELECT * FROM devices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("deviceRepo.GetByID: %w", err)
	}
	return &device, nil
}

func (r *deviceRepo) List(ctx context.Context) ([]domain.Device, error) {
	var devices []domain.Device
	err := r.db.SelectContext(ctx, &devices,
		"SELECT * FROM devices ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("deviceRepo.List: %w", err)
	}
	return devices, nil
}

func (r *deviceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeviceStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE devices SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("deviceRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *deviceRepo) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE devices SET last_seen_at = $1 WHERE id = $2", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deviceRepo.TouchLastSeen: %w", err)
	}
	return nil
}
