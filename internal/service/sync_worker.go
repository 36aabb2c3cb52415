package service

import (
	"context"
	"log"
	"sync"
	"time"

	"tillsync/internal/port"
)

// SyncWorkerConfig holds settings for the order sync worker.
type SyncWorkerConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// SyncWorker polls the storefront for new orders and dispatches them for
// normalization and storage.
type SyncWorker struct {
	fetcher      port.OrderFetcher
	orderService OrderService
	cfg          SyncWorkerConfig
	wg           sync.WaitGroup
}

// NewSyncWorker creates a new SyncWorker.
func NewSyncWorker(fetcher port.OrderFetcher, orderService OrderService, cfg SyncWorkerConfig) *SyncWorker {
	return &SyncWorker{
		fetcher:      fetcher,
		orderService: orderService,
		cfg:          cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight ingests have finished.
func (w *SyncWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("syncWorker: started (poll=%s, concurrency=%d)", w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("syncWorker: shutting down, waiting for in-flight ingests...")
			w.wg.Wait()
			log.Printf("syncWorker: shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

func (w *SyncWorker) poll(ctx context.Context, sem chan struct{}) {
	after, err := w.orderService.SyncCursor(ctx)
	if err != nil {
		log.Printf("syncWorker: cursor error: %v", err)
		return
	}

	orders, err := w.fetcher.FetchOrders(ctx, after)
	if err != nil {
		if ctx.Err() != nil {
			// Context canceled during poll, exit gracefully
			return
		}
		log.Printf("syncWorker: fetch error: %v", err)
		return
	}
	if len(orders) == 0 {
		return
	}
	log.Printf("syncWorker: fetched %d orders after %s", len(orders), after.Format(time.RFC3339))

	for i := range orders {
		raw := orders[i] // copy for goroutine

		sem <- struct{}{} // acquire
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }() // release

			// Use a fresh context independent of the poll context so
			// in-flight ingests complete even during shutdown.
			ingestCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if _, isNew, err := w.orderService.IngestOrder(ingestCtx, &raw); err != nil {
				log.Printf("syncWorker: ingest order %d: %v", raw.ID, err)
			} else if isNew {
				log.Printf("syncWorker: new order %d", raw.ID)
			}
		}()
	}
}
