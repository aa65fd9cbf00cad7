package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"skinpricer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrice(t testing.TB, s string) domain.Price {
	t.Helper()
	p, err := domain.ParsePrice(s)
	require.NoError(t, err)
	return p
}

func setupStore(t *testing.T, maxConns int) CatalogStore {
	t.Helper()

	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "prices.db"), maxConns, 200*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.UpsertRecords(ctx, []domain.CatalogRecord{
		{CanonicalName: "AK-47 | Redline (Field-Tested)", Price: mustPrice(t, "12.50"), IconURL: "https://cdn.example/ak.png"},
		{CanonicalName: "Elite Crew | Ground Rebel", Price: mustPrice(t, "3.10"), IconURL: "https://cdn.example/rebel.png"},
		{CanonicalName: "50%_Off | Sale", Price: mustPrice(t, "1"), IconURL: ""},
		{CanonicalName: "Sticker | Unpriced", Price: domain.MissingPrice()},
	}))

	return store
}

func TestSQLiteLookupExact(t *testing.T) {
	store := setupStore(t, 2)
	ctx := context.Background()

	session, err := store.Acquire(ctx)
	require.NoError(t, err)
	defer session.Release()

	records, err := session.LookupExact(ctx, []string{"AK-47 | Redline (Field-Tested)", "Missing", "Sticker | Unpriced"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	byName := map[string]domain.CatalogRecord{}
	for _, r := range records {
		byName[r.CanonicalName] = r
	}
	assert.Equal(t, "12.50", byName["AK-47 | Redline (Field-Tested)"].Price.String())
	assert.Equal(t, "https://cdn.example/ak.png", byName["AK-47 | Redline (Field-Tested)"].IconURL)
	assert.False(t, byName["Sticker | Unpriced"].Price.Found())

	empty, err := session.LookupExact(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteUpsertOverwrites(t *testing.T) {
	store := setupStore(t, 1)
	ctx := context.Background()

	require.NoError(t, store.UpsertRecords(ctx, []domain.CatalogRecord{
		{CanonicalName: "AK-47 | Redline (Field-Tested)", Price: mustPrice(t, "13.00"), IconURL: "new.png"},
	}))

	session, err := store.Acquire(ctx)
	require.NoError(t, err)
	defer session.Release()

	records, err := session.LookupExact(ctx, []string{"AK-47 | Redline (Field-Tested)"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "13.00", records[0].Price.String())
	assert.Equal(t, "new.png", records[0].IconURL)
}

func TestSQLiteLookupContains(t *testing.T) {
	store := setupStore(t, 1)
	ctx := context.Background()

	session, err := store.Acquire(ctx)
	require.NoError(t, err)
	defer session.Release()

	records, err := session.LookupContains(ctx, "ground rebel", "Elite Crew", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Elite Crew | Ground Rebel", records[0].CanonicalName)

	records, err = session.LookupContains(ctx, "Ground Rebel", "Phoenix", 1)
	require.NoError(t, err)
	assert.Empty(t, records)

	// wildcards in the input are literal
	records, err = session.LookupContains(ctx, "0%", "_", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "50%_Off | Sale", records[0].CanonicalName)
}

func TestSQLiteAcquireTimesOutWhenPoolExhausted(t *testing.T) {
	store := setupStore(t, 1)
	ctx := context.Background()

	held, err := store.Acquire(ctx)
	require.NoError(t, err)

	_, err = store.Acquire(ctx)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	held.Release()
	held.Release()

	again, err := store.Acquire(ctx)
	require.NoError(t, err)
	again.Release()
}
