package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"skinpricer/internal/domain"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS catalog_items (
	market_hash_name TEXT PRIMARY KEY,
	price TEXT,
	icon_url TEXT NOT NULL DEFAULT ''
)`

type sqliteStore struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// OpenSQLiteStore opens (or creates) a file-backed catalog with at most maxConns connections.
func OpenSQLiteStore(path string, maxConns int, acquireTimeout time.Duration) (CatalogStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxConns)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	return &sqliteStore{db: db, acquireTimeout: acquireTimeout}, nil
}

func (s *sqliteStore) Acquire(ctx context.Context) (CatalogSession, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, s.acquireTimeout)
	defer cancel()

	conn, err := s.db.Conn(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to acquire connection: %w", domain.ErrStoreUnavailable, err)
	}

	return &sqliteSession{conn: conn}, nil
}

func (s *sqliteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create catalog table: %w", err)
	}
	return nil
}

func (s *sqliteStore) UpsertRecords(ctx context.Context, records []domain.CatalogRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO catalog_items (market_hash_name, price, icon_url)
	VALUES (?, ?, ?)
	ON CONFLICT (market_hash_name)
	DO UPDATE SET price = excluded.price, icon_url = excluded.icon_url`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx, record.CanonicalName, priceArg(record.Price), record.IconURL); err != nil {
			return fmt.Errorf("failed to save catalog record %q: %w", record.CanonicalName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog records: %w", err)
	}

	log.Debugf("Upserted %d catalog records", len(records))
	return nil
}

func (s *sqliteStore) Close() {
	if err := s.db.Close(); err != nil {
		log.Warnf("Failed to close sqlite store: %v", err)
	}
}

type sqliteSession struct {
	conn *sql.Conn
	once sync.Once
}

func (s *sqliteSession) LookupExact(ctx context.Context, names []string) ([]domain.CatalogRecord, error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]any, len(names))
	for i, name := range names {
		args[i] = name
	}

	query := `SELECT market_hash_name, COALESCE(price, ''), icon_url FROM catalog_items WHERE market_hash_name IN (` + placeholders + `)`
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog by name: %w", err)
	}

	return scanSQLRecords(rows)
}

func (s *sqliteSession) LookupContains(ctx context.Context, first, second string, limit int) ([]domain.CatalogRecord, error) {
	query := `
	SELECT market_hash_name, COALESCE(price, ''), icon_url
	FROM catalog_items
	WHERE market_hash_name LIKE ? ESCAPE '\' AND market_hash_name LIKE ? ESCAPE '\'
	ORDER BY market_hash_name
	LIMIT ?`

	rows, err := s.conn.QueryContext(ctx, query, containsPattern(first), containsPattern(second), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog by substring: %w", err)
	}

	return scanSQLRecords(rows)
}

func (s *sqliteSession) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *sqliteSession) Release() {
	s.once.Do(func() {
		if err := s.conn.Close(); err != nil {
			log.Warnf("Failed to release sqlite connection: %v", err)
		}
	})
}

func scanSQLRecords(rows *sql.Rows) ([]domain.CatalogRecord, error) {
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
