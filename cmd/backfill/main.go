// Command backfill re-normalizes every stored order from its raw payload,
// threading the existing canonical form through as prior state. Run it after
// changing the keyword table so already-synced orders pick up the new rules.
// Usage: go run ./cmd/backfill
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"tillsync/internal/config"
	"tillsync/internal/normalize"
	"tillsync/internal/repository/postgres"
	"tillsync/internal/storefront"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	var keywords *normalize.Keywords
	if cfg.Sync.KeywordsFile != "" {
		keywords, err = normalize.LoadKeywords(cfg.Sync.KeywordsFile)
		if err != nil {
			return fmt.Errorf("loading keyword table: %w", err)
		}
	}
	normalizer := normalize.New(keywords)
	orderRepo := postgres.NewOrderRepo(db)

	ctx := context.Background()
	offset := 0
	total := 0
	skipped := 0

	for {
		var ids []int64
		err := db.SelectContext(ctx, &ids,
			"SELECT order_id FROM orders ORDER BY order_id LIMIT $1 OFFSET $2",
			batchSize, offset)
		if err != nil {
			return fmt.Errorf("querying orders at offset %d: %w", offset, err)
		}
		if len(ids) == 0 {
			break
		}

		for _, orderID := range ids {
			prior, err := orderRepo.GetByOrderID(ctx, orderID)
			if err != nil {
				return fmt.Errorf("loading order %d: %w", orderID, err)
			}
			payload, err := orderRepo.GetRawPayload(ctx, orderID)
			if err != nil {
				return fmt.Errorf("loading payload for order %d: %w", orderID, err)
			}

			var raw storefront.Order
			if err := json.Unmarshal(payload, &raw); err != nil {
				log.Printf("backfill: order %d has unreadable payload, skipping: %v", orderID, err)
				skipped++
				continue
			}

			order, err := normalizer.NormalizeWithPrior(&raw, prior)
			if err != nil {
				return fmt.Errorf("normalizing order %d: %w", orderID, err)
			}
			// Preserve flags explicitly: Upsert already keeps stored values,
			// but carrying them over makes the log comparison below honest.
			order.Printed = prior.Printed
			order.Read = prior.Read
			order.Notified = prior.Notified

			if err := orderRepo.Upsert(ctx, order, payload); err != nil {
				return fmt.Errorf("storing order %d: %w", orderID, err)
			}
			if order.Method != prior.Method {
				log.Printf("backfill: order %d method changed %s -> %s", orderID, prior.Method, order.Method)
			}
			total++
		}
		offset += len(ids)
	}

	log.Printf("backfill: re-normalized %d orders (%d skipped)", total, skipped)
	return nil
}
