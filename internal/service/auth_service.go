package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tillsync/internal/config"
	"tillsync/internal/domain"
	"tillsync/internal/port"
)

// DeviceClaims represents the JWT claims carried by a paired device token.
type DeviceClaims struct {
	jwt.RegisteredClaims
	DeviceID   uuid.UUID `json:"device_id"`
	DeviceName string    `json:"device_name"`
}

// PairInput is the DTO for device pairing requests.
type PairInput struct {
	DeviceName  string `json:"device_name" binding:"required"`
	PairingCode string `json:"pairing_code" binding:"required"`
}

// PairOutput holds the result of a successful pairing.
type PairOutput struct {
	Device    *domain.Device `json:"device"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// AuthService defines the device pairing and authentication contract.
type AuthService interface {
	Pair(ctx context.Context, input PairInput) (*PairOutput, error)
	Authenticate(ctx context.Context, tokenString string) (*DeviceClaims, error)
	RevokeDevice(ctx context.Context, deviceID uuid.UUID) error
	ListDevices(ctx context.Context) ([]domain.Device, error)
}

type authService struct {
	deviceRepo port.DeviceRepository
	cfg        config.AuthConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(deviceRepo port.DeviceRepository, cfg config.AuthConfig) AuthService {
	return &authService{
		deviceRepo: deviceRepo,
		cfg:        cfg,
	}
}

// Pair registers a new POS terminal. The operator-supplied pairing code is
// checked against the configured bcrypt hash; a matching code yields a
// long-lived device token.
func (s *authService) Pair(ctx context.Context, input PairInput) (*PairOutput, error) {
	if s.cfg.PairingCodeHash == "" {
		return nil, domain.ErrInvalidPairingCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PairingCodeHash), []byte(input.PairingCode)); err != nil {
		return nil, domain.ErrInvalidPairingCode
	}

	device := &domain.Device{
		Name:   input.DeviceName,
		Status: domain.DeviceStatusActive,
	}
	if err := s.deviceRepo.Create(ctx, device); err != nil {
		return nil, fmt.Errorf("auth.Pair: %w", err)
	}

	token, expiresAt, err := s.generateToken(device)
	if err != nil {
		return nil, err
	}
	return &PairOutput{
		Device:    device,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate validates a device token and confirms the device is still
// active. A revoked device fails even while its token is unexpired.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*DeviceClaims, error) {
	claims, err := s.validateTokenString(tokenString)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	device, err := s.deviceRepo.GetByID(ctx, claims.DeviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Authenticate: %w", err)
	}
	if device.Status != domain.DeviceStatusActive {
		return nil, domain.ErrDeviceRevoked
	}

	if err := s.deviceRepo.TouchLastSeen(ctx, device.ID); err != nil {
		return nil, fmt.Errorf("auth.Authenticate: %w", err)
	}
	return claims, nil
}

func (s *authService) RevokeDevice(ctx context.Context, deviceID uuid.UUID) error {
	if err := s.deviceRepo.UpdateStatus(ctx, deviceID, domain.DeviceStatusRevoked); err != nil {
		return fmt.Errorf("auth.RevokeDevice: %w", err)
	}
	return nil
}

func (s *authService) ListDevices(ctx context.Context) ([]domain.Device, error) {
	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth.ListDevices: %w", err)
	}
	return devices, nil
}

func (s *authService) generateToken(device *domain.Device) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.TokenExpiry)

	claims := &DeviceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   device.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{"device"},
		},
		DeviceID:   device.ID,
		DeviceName: device.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing device token: %w", err)
	}
	return tokenString, expiresAt, nil
}

func (s *authService) validateTokenString(tokenString string) (*DeviceClaims, error) {
	claims := &DeviceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	aud, _ := claims.GetAudience()
	found := false
	for _, a := range aud {
		if a == "device" {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
