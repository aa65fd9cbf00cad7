package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"skinpricer/internal/cache"
	"skinpricer/internal/descriptor"
	"skinpricer/internal/domain"

	log "github.com/sirupsen/logrus"
)

var steamIDRegex = regexp.MustCompile(`^(\d{17}|[A-Za-z0-9_-]{2,32})$`)

type InventorySource interface {
	GetInventory(ctx context.Context, steamID string) ([]domain.RawItem, error)
}

type Enricher interface {
	Enrich(ctx context.Context, descriptors []domain.ItemDescriptor) ([]domain.EnrichedItem, error)
}

type Service struct {
	source                InventorySource
	enricher              Enricher
	cache                 cache.InventoryCache
	degradeOnStoreFailure bool
}

func NewService(
	source InventorySource,
	enricher Enricher,
	inventoryCache cache.InventoryCache,
	degradeOnStoreFailure bool,
) *Service {
	if inventoryCache == nil {
		inventoryCache = cache.Noop{}
	}
	return &Service{
		source:                source,
		enricher:              enricher,
		cache:                 inventoryCache,
		degradeOnStoreFailure: degradeOnStoreFailure,
	}
}

// PriceInventory returns one priced row per inventory item, in page order,
// or a single error whose domain.Reason tells the caller what went wrong.
func (s *Service) PriceInventory(ctx context.Context, steamID string) ([]domain.EnrichedItem, error) {
	if !steamIDRegex.MatchString(steamID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSteamID, steamID)
	}

	started := time.Now()

	if items, ok, err := s.cache.Get(ctx, steamID); err != nil {
		log.Warnf("⚠️ Inventory cache read failed: %v", err)
	} else if ok {
		log.Debugf("Serving inventory %s from cache", steamID)
		return items, nil
	}

	raws, err := s.source.GetInventory(ctx, steamID)
	if err != nil {
		log.Errorf("❌ Failed to get inventory %s: %v", steamID, err)
		return nil, err
	}

	descriptors := descriptor.Build(raws)
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w: %d elements on page, none usable", domain.ErrNoItemsExtracted, len(raws))
	}

	items, err := s.enricher.Enrich(ctx, descriptors)
	if err != nil {
		if !s.degradeOnStoreFailure {
			return nil, err
		}
		log.Warnf("⚠️ Returning unpriced inventory %s: %v", steamID, err)
		return items, nil
	}

	if err := s.cache.Set(ctx, steamID, items); err != nil {
		log.Warnf("⚠️ Inventory cache write failed: %v", err)
	}

	log.Infof("✅ Priced inventory %s: %d items in %v", steamID, len(items), time.Since(started).Round(time.Millisecond))
	return items, nil
}
