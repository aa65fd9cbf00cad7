package repository

import (
	"context"
	"fmt"
	"strings"

	"skinpricer/internal/domain"
)

// CatalogStore is the reference price table. Lookups go through a CatalogSession
// so one request holds exactly one pooled connection.
type CatalogStore interface {
	// Acquire blocks until a connection is free or the configured acquire timeout
	// elapses, in which case the error wraps domain.ErrStoreUnavailable.
	Acquire(ctx context.Context) (CatalogSession, error)
	UpsertRecords(ctx context.Context, records []domain.CatalogRecord) error
	Migrate(ctx context.Context) error
	Close()
}

// CatalogSession is a scoped hold on one store connection. Release is idempotent
// and must be called on every exit path.
type CatalogSession interface {
	// LookupExact returns the records whose market_hash_name is one of names.
	LookupExact(ctx context.Context, names []string) ([]domain.CatalogRecord, error)
	// LookupContains returns up to limit records whose name contains both substrings.
	LookupContains(ctx context.Context, first, second string, limit int) ([]domain.CatalogRecord, error)
	// Ping reports whether the held connection still reaches the store.
	Ping(ctx context.Context) error
	Release()
}

func newRecord(name, price, iconURL string) (domain.CatalogRecord, error) {
	record := domain.CatalogRecord{
		CanonicalName: name,
		Price:         domain.MissingPrice(),
		IconURL:       iconURL,
	}
	if price == "" {
		return record, nil
	}

	parsed, err := domain.ParsePrice(price)
	if err != nil {
		return domain.CatalogRecord{}, fmt.Errorf("failed to read price of %q: %w", name, err)
	}
	record.Price = parsed
	return record, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
