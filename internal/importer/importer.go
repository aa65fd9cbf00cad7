// Package importer loads a market price dump into the catalog store.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"skinpricer/internal/domain"
	"skinpricer/internal/repository"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// Load reads a JSON array of {market_hash_name, price, icon_url} from a file or URL.
// Rows without a name are dropped; a repeated name keeps its last row.
func Load(ctx context.Context, source string, timeout time.Duration) ([]domain.CatalogRecord, error) {
	var blob []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		blob, err = download(ctx, source, timeout)
	} else {
		blob, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	return Decode(blob)
}

func Decode(blob []byte) ([]domain.CatalogRecord, error) {
	var rows []domain.CatalogRecord
	if err := json.Unmarshal(blob, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode price dump: %w", err)
	}

	positions := make(map[string]int, len(rows))
	records := make([]domain.CatalogRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		row.CanonicalName = strings.TrimSpace(row.CanonicalName)
		if row.CanonicalName == "" {
			skipped++
			continue
		}
		if pos, ok := positions[row.CanonicalName]; ok {
			records[pos] = row
			continue
		}
		positions[row.CanonicalName] = len(records)
		records = append(records, row)
	}

	if skipped > 0 {
		log.Warnf("⚠️ Skipped %d price rows without a market_hash_name", skipped)
	}
	return records, nil
}

// Save upserts records in batches of batchSize.
func Save(ctx context.Context, store repository.CatalogStore, records []domain.CatalogRecord, batchSize int) error {
	if batchSize <= 0 {
		batchSize = len(records)
	}

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		if err := store.UpsertRecords(ctx, records[start:end]); err != nil {
			return fmt.Errorf("failed to save records %d-%d: %w", start, end-1, err)
		}
		log.Infof("🔄 Saved %d/%d catalog records", end, len(records))
	}
	return nil
}

func download(ctx context.Context, source string, timeout time.Duration) ([]byte, error) {
	resp, err := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		R().
		SetContext(ctx).
		Get(source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status())
	}
	return resp.Bytes(), nil
}
