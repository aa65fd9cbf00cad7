package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"skinpricer/internal/config"
	"skinpricer/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventoryPage = `<html><body>
<div class="inventory-item" data-wear="Field-Tested" data-quality="Classified" data-name="AK-47%20%7C%20Redline"></div>
<div class="inventory-item knife" data-wear="Factory New" data-quality="Covert" data-name="Karambit"></div>
<div class="inventory-item" data-wear="" data-quality="Master Agent" data-name="Ground%20Rebel%20%7C%20Elite%20Crew"></div>
</body></html>`

func TestContainerEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(inventoryPage))
	}))
	defer upstream.Close()

	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Inventory.BaseURL = upstream.URL
	cfg.Inventory.MaxRetries = 0
	cfg.Inventory.MaxRequestsPerSecond = 1000
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "prices.db")
	cfg.Redis.Enabled = true
	cfg.Redis.Host, cfg.Redis.Port = mr.Host(), mustPort(t, mr.Port())
	cfg.Matching.ChunkSize = 2

	ctx := context.Background()
	c, err := New(ctx, cfg)
	require.NoError(t, err)
	defer c.Close()

	ak, err := domain.ParsePrice("12.50")
	require.NoError(t, err)
	rebel, err := domain.ParsePrice("3.10")
	require.NoError(t, err)
	require.NoError(t, c.Store.UpsertRecords(ctx, []domain.CatalogRecord{
		{CanonicalName: "AK-47 | Redline (Field-Tested)", Price: ak, IconURL: "ak.png"},
		{CanonicalName: "Elite Crew | Ground Rebel", Price: rebel, IconURL: "rebel.png"},
	}))

	rec := httptest.NewRecorder()
	c.API.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inventory/76561198000000000", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"items": [
			{"name": "AK-47 | Redline", "wear": "Field-Tested", "price": 12.50, "icon_url": "ak.png"},
			{"name": "★ Karambit", "wear": "Factory New", "price": "not found", "icon_url": ""},
			{"name": "Ground Rebel | Elite Crew", "wear": "Agent", "price": 3.10, "icon_url": "rebel.png"}
		],
		"count": 3
	}`, rec.Body.String())

	assert.True(t, mr.Exists("skinpricer:inventory:76561198000000000"))
}

func mustPort(t *testing.T, port string) int {
	t.Helper()
	n, err := strconv.Atoi(port)
	require.NoError(t, err)
	return n
}
