package enrich

import (
	"context"
	"fmt"

	"skinpricer/internal/domain"
	"skinpricer/internal/matcher"

	log "github.com/sirupsen/logrus"
)

type CatalogMatcher interface {
	Match(ctx context.Context, descriptors []domain.ItemDescriptor) (matcher.Matches, error)
}

type Pipeline struct {
	matcher CatalogMatcher
}

func NewPipeline(m CatalogMatcher) *Pipeline {
	return &Pipeline{matcher: m}
}

// Enrich prices descriptors and always returns one row per descriptor, in input order.
// When matching fails outright every row is unpriced and the error is returned alongside
// so the caller can decide between degrading and failing the request.
func (p *Pipeline) Enrich(ctx context.Context, descriptors []domain.ItemDescriptor) ([]domain.EnrichedItem, error) {
	matches, err := p.matcher.Match(ctx, descriptors)
	if err != nil {
		log.Errorf("❌ Catalog matching failed for %d items, returning unpriced rows: %v", len(descriptors), err)
		matches = nil
		err = fmt.Errorf("failed to match catalog records: %w", err)
	}

	items := make([]domain.EnrichedItem, len(descriptors))
	priced := 0
	for i, d := range descriptors {
		item := domain.EnrichedItem{
			DisplayName: d.DisplayName(),
			Wear:        wearLabel(d),
			Price:       domain.MissingPrice(),
		}
		if record, ok := matches[d.Ordinal]; ok {
			item.Price = record.Price
			item.IconURL = record.IconURL
			if record.Price.Found() {
				priced++
			}
		}
		items[i] = item
	}

	log.Debugf("Enriched %d items, %d priced", len(items), priced)
	return items, err
}

func wearLabel(d domain.ItemDescriptor) string {
	if d.Wear == "" && d.IsAgent {
		return "Agent"
	}
	return d.Wear
}
