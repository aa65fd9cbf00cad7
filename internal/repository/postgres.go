package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skinpricer/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS catalog_items (
	market_hash_name TEXT PRIMARY KEY,
	price NUMERIC(14, 2),
	icon_url TEXT NOT NULL DEFAULT ''
)`

type postgresStore struct {
	db             *pgxpool.Pool
	acquireTimeout time.Duration
}

func NewPostgresStore(db *pgxpool.Pool, acquireTimeout time.Duration) CatalogStore {
	return &postgresStore{
		db:             db,
		acquireTimeout: acquireTimeout,
	}
}

func (s *postgresStore) Acquire(ctx context.Context) (CatalogSession, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, s.acquireTimeout)
	defer cancel()

	conn, err := s.db.Acquire(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to acquire connection: %w", domain.ErrStoreUnavailable, err)
	}

	return &postgresSession{conn: conn}, nil
}

func (s *postgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create catalog table: %w", err)
	}
	return nil
}

func (s *postgresStore) UpsertRecords(ctx context.Context, records []domain.CatalogRecord) error {
	query := `
	INSERT INTO catalog_items (market_hash_name, price, icon_url)
	VALUES ($1, $2, $3)
	ON CONFLICT (market_hash_name)
	DO UPDATE SET price = $2, icon_url = $3`

	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(query, record.CanonicalName, priceArg(record.Price), record.IconURL)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save catalog records: %w", err)
	}

	log.Debugf("Upserted %d catalog records", len(records))
	return nil
}

func (s *postgresStore) Close() {
	s.db.Close()
}

type postgresSession struct {
	conn *pgxpool.Conn
	once sync.Once
}

func (s *postgresSession) LookupExact(ctx context.Context, names []string) ([]domain.CatalogRecord, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := `
	SELECT market_hash_name, COALESCE(price::text, ''), icon_url
	FROM catalog_items
	WHERE market_hash_name = ANY($1)`

	rows, err := s.conn.Query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog by name: %w", err)
	}

	return collectRecords(rows)
}

func (s *postgresSession) LookupContains(ctx context.Context, first, second string, limit int) ([]domain.CatalogRecord, error) {
	query := `
	SELECT market_hash_name, COALESCE(price::text, ''), icon_url
	FROM catalog_items
	WHERE market_hash_name ILIKE $1 ESCAPE '\' AND market_hash_name ILIKE $2 ESCAPE '\'
	ORDER BY market_hash_name
	LIMIT $3`

	rows, err := s.conn.Query(ctx, query, containsPattern(first), containsPattern(second), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog by substring: %w", err)
	}

	return collectRecords(rows)
}

func (s *postgresSession) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *postgresSession) Release() {
	s.once.Do(s.conn.Release)
}

func collectRecords(rows pgx.Rows) ([]domain.CatalogRecord, error) {
	defer rows.Close()

	var records []domain.CatalogRecord
	for rows.Next() {
		var name, price, iconURL string
		if err := rows.Scan(&name, &price, &iconURL); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		record, err := newRecord(name, price, iconURL)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog rows: %w", err)
	}
	return records, nil
}

func priceArg(p domain.Price) any {
	amount, ok := p.Amount()
	if !ok {
		return nil
	}
	return amount.String()
}
