// Command normalize runs the normalization pipeline over a single raw
// storefront order JSON file and prints the canonical result. Useful for
// debugging keyword tables against problem orders.
// Usage: go run ./cmd/normalize [-keywords table.yaml] order.json
// With no file argument the order is read from stdin.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"tillsync/internal/normalize"
	"tillsync/internal/storefront"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	keywordsPath := flag.String("keywords", "", "path to a keyword table YAML override")
	flag.Parse()

	var kw *normalize.Keywords
	if *keywordsPath != "" {
		loaded, err := normalize.LoadKeywords(*keywordsPath)
		if err != nil {
			return fmt.Errorf("loading keyword table: %w", err)
		}
		kw = loaded
	}

	var data []byte
	var err error
	if flag.NArg() > 0 {
		data, err = os.ReadFile(flag.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading order: %w", err)
	}

	var raw storefront.Order
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing order JSON: %w", err)
	}

	order, err := normalize.New(kw).Normalize(&raw)
	if err != nil {
		return fmt.Errorf("normalizing order: %w", err)
	}

	out, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
