package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"

	"tillsync/internal/domain"
	"tillsync/internal/export"
	"tillsync/internal/port"
)

// ExportFormat selects the export file type.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ExportResult holds a rendered export file.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	// ArchiveURL is a presigned link to the archived copy, empty when
	// archiving is disabled.
	ArchiveURL string
}

// ExportService renders stored orders as downloadable files.
type ExportService interface {
	Export(ctx context.Context, filter port.OrderFilter, format ExportFormat) (*ExportResult, error)
}

type exportService struct {
	orderRepo     port.OrderRepository
	storage       port.ObjectStorage
	bucket        string
	archive       bool
	presignExpiry int64

	mu             sync.Mutex
	lastArchiveKey string
}

// NewExportService creates a new ExportService implementation. A nil storage
// disables archiving regardless of the archive flag.
func NewExportService(orderRepo port.OrderRepository, storage port.ObjectStorage, bucket string, archive bool, presignExpiry int64) ExportService {
	return &exportService{
		orderRepo:     orderRepo,
		storage:       storage,
		bucket:        bucket,
		archive:       archive && storage != nil,
		presignExpiry: presignExpiry,
	}
}

func (s *exportService) Export(ctx context.Context, filter port.OrderFilter, format ExportFormat) (*ExportResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10000
	}
	orders, _, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("export.Export: %w", err)
	}
	if len(orders) == 0 {
		return nil, domain.ErrExportEmpty
	}

	var result *ExportResult
	switch format {
	case FormatXLSX:
		result, err = renderXLSX(orders)
	default:
		result, err = renderCSV(orders)
	}
	if err != nil {
		return nil, err
	}

	if s.archive {
		s.archiveCopy(ctx, result)
	}
	return result, nil
}

func renderCSV(orders []domain.CanonicalOrder) (*ExportResult, error) {
	var buf bytes.Buffer
	buf.Write(export.BOM)

	w := export.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("export.Export header: %w", err)
	}
	if err := w.WriteOrders(orders); err != nil {
		return nil, fmt.Errorf("export.Export rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export.Export flush: %w", err)
	}

	return &ExportResult{
		Filename:    export.BuildFilename("orders", "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

func renderXLSX(orders []domain.CanonicalOrder) (*ExportResult, error) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, orders); err != nil {
		return nil, fmt.Errorf("export.Export: %w", err)
	}
	return &ExportResult{
		Filename:    export.BuildFilename("orders", "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

// archiveCopy uploads the rendered file and attaches a presigned URL. Archive
// failures are logged, never propagated: the download itself must still work.
// Only the latest archive is kept; the previous one is pruned after a
// successful upload.
func (s *exportService) archiveCopy(ctx context.Context, result *ExportResult) {
	key := "exports/" + result.Filename
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(result.Data),
		ContentType: result.ContentType,
		Size:        int64(len(result.Data)),
	})
	if err != nil {
		log.Printf("exportService: archive upload failed: %v", err)
		return
	}

	s.mu.Lock()
	prev := s.lastArchiveKey
	s.lastArchiveKey = key
	s.mu.Unlock()
	if prev != "" && prev != key {
		if err := s.storage.Delete(ctx, s.bucket, prev); err != nil {
			log.Printf("exportService: archive prune failed: %v", err)
		}
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, key, s.presignExpiry)
	if err != nil {
		log.Printf("exportService: presign failed: %v", err)
		return
	}
	result.ArchiveURL = url
}
