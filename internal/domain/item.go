package domain

import "slices"

const (
	StarMarker     = "★"
	StatTrakMarker = "StatTrak™"
	SouvenirMarker = "Souvenir"

	// FieldSeparator splits the pipe-delimited fields of a market name ("Karambit | Fade").
	FieldSeparator = " | "

	// WearVanilla marks knives sold without a finish.
	WearVanilla = "Vanilla"
)

const (
	TagKnife    = "knife"
	TagGloves   = "gloves"
	TagStatTrak = "stattrak"
	TagSouvenir = "souvenir"
)

// RawItem is the attribute tuple extracted from one inventory element.
type RawItem struct {
	Wear        string `json:"wear"`
	Quality     string `json:"quality"`
	Class       string `json:"class"`
	EncodedName string `json:"encoded_name"`
}

// ItemDescriptor is the typed view of one scraped inventory item.
// Ordinals are dense and 0-based within a batch, so duplicates stay distinct.
type ItemDescriptor struct {
	Name         string   `json:"name"`
	Wear         string   `json:"wear"`
	CategoryTags []string `json:"category_tags"` // sorted, unique
	IsAgent      bool     `json:"is_agent"`
	IsKnife      bool     `json:"is_knife"`
	IsGloves     bool     `json:"is_gloves"`
	Ordinal      int      `json:"ordinal"`
}

func (d ItemDescriptor) HasTag(tag string) bool {
	_, found := slices.BinarySearch(d.CategoryTags, tag)
	return found
}

func (d ItemDescriptor) IsStatTrak() bool {
	return d.HasTag(TagStatTrak)
}

func (d ItemDescriptor) IsSouvenir() bool {
	return d.HasTag(TagSouvenir)
}

// HasGradedWear reports whether the wear label is a real condition rather than blank or Vanilla.
func (d ItemDescriptor) HasGradedWear() bool {
	return d.Wear != "" && d.Wear != WearVanilla
}

// CatalogRecord is a row of the reference price table keyed by market_hash_name.
type CatalogRecord struct {
	CanonicalName string `json:"market_hash_name"`
	Price         Price  `json:"price"`
	IconURL       string `json:"icon_url"`
}

// EnrichedItem is the caller-facing priced row.
type EnrichedItem struct {
	DisplayName string `json:"name"`
	Wear        string `json:"wear"`
	Price       Price  `json:"price"`
	IconURL     string `json:"icon_url"`
}
