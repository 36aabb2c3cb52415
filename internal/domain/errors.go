package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidPairingCode = errors.New("invalid pairing code")
	ErrDeviceRevoked      = errors.New("device is revoked")
	ErrNilOrder           = errors.New("raw order is nil")
	ErrExportEmpty        = errors.New("no orders in the requested range")
	ErrUploadFailed       = errors.New("archive upload to storage failed")
)
