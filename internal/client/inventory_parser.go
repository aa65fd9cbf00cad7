package client

import (
	"fmt"
	"strings"

	"skinpricer/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const defaultItemSelector = "div.inventory-item"

type inventoryParser struct {
	itemSelector string
}

func newInventoryParser(itemSelector string) *inventoryParser {
	if itemSelector == "" {
		itemSelector = defaultItemSelector
	}
	return &inventoryParser{itemSelector: itemSelector}
}

// ParseInventory extracts the attribute tuple of every item element.
// A page without item elements is treated as private or invalid.
func (p *inventoryParser) ParseInventory(html string) ([]domain.RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	items := make([]domain.RawItem, 0)
	doc.Find(p.itemSelector).Each(func(i int, s *goquery.Selection) {
		name, ok := s.Attr("data-name")
		if !ok {
			log.Debugf("Skipping inventory element %d without data-name", i)
			return
		}

		items = append(items, domain.RawItem{
			Wear:        s.AttrOr("data-wear", ""),
			Quality:     s.AttrOr("data-quality", ""),
			Class:       s.AttrOr("class", ""),
			EncodedName: name,
		})
	})

	if len(items) == 0 {
		return nil, fmt.Errorf("no inventory items found, the inventory may be private")
	}

	log.Debugf("Parsed %d inventory elements", len(items))
	return items, nil
}
