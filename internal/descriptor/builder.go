package descriptor

import (
	"net/url"
	"slices"
	"strings"

	"skinpricer/internal/domain"

	log "github.com/sirupsen/logrus"
)

var agentQualities = map[string]struct{}{
	"master agent":        {},
	"superior agent":      {},
	"exceptional agent":   {},
	"distinguished agent": {},
}

var wearAbbreviations = map[string]string{
	"fn": "Factory New",
	"mw": "Minimal Wear",
	"ft": "Field-Tested",
	"ww": "Well-Worn",
	"bs": "Battle-Scarred",
}

// Build converts raw inventory elements into descriptors.
// Elements without a usable name are skipped and do not consume an ordinal.
func Build(raws []domain.RawItem) []domain.ItemDescriptor {
	out := make([]domain.ItemDescriptor, 0, len(raws))
	for i, raw := range raws {
		d, ok := buildOne(raw)
		if !ok {
			log.Debugf("Skipping inventory element %d with unusable name %q", i, raw.EncodedName)
			continue
		}
		d.Ordinal = len(out)
		out = append(out, d)
	}
	return out
}

func buildOne(raw domain.RawItem) (domain.ItemDescriptor, bool) {
	name, err := url.QueryUnescape(raw.EncodedName)
	if err != nil {
		return domain.ItemDescriptor{}, false
	}
	name = domain.Collapse(name)
	if name == "" {
		return domain.ItemDescriptor{}, false
	}

	class := strings.ToLower(raw.Class)
	tags := categoryTags(class)

	return domain.ItemDescriptor{
		Name:         name,
		Wear:         NormalizeWear(raw.Wear),
		CategoryTags: tags,
		IsAgent:      IsAgentQuality(raw.Quality),
		IsKnife:      slices.Contains(tags, domain.TagKnife),
		IsGloves:     slices.Contains(tags, domain.TagGloves),
	}, true
}

// categoryTags returns the sorted, unique class tokens plus the canonical flag tags
// derived by substring, so "knife-karambit" still counts as a knife.
func categoryTags(class string) []string {
	set := map[string]struct{}{}
	for _, token := range strings.Fields(class) {
		set[token] = struct{}{}
	}

	if strings.Contains(class, "knife") {
		set[domain.TagKnife] = struct{}{}
	}
	if strings.Contains(class, "glove") {
		set[domain.TagGloves] = struct{}{}
	}
	if strings.Contains(class, "stattrak") {
		set[domain.TagStatTrak] = struct{}{}
	}
	if strings.Contains(class, "souvenir") {
		set[domain.TagSouvenir] = struct{}{}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// IsAgentQuality reports whether a quality label belongs to the agent rarity set.
func IsAgentQuality(quality string) bool {
	_, ok := agentQualities[strings.ToLower(domain.Collapse(quality))]
	return ok
}

// NormalizeWear expands short wear codes and tidies whitespace.
func NormalizeWear(wear string) string {
	wear = domain.Collapse(wear)
	if full, ok := wearAbbreviations[strings.ToLower(wear)]; ok {
		return full
	}
	if strings.EqualFold(wear, domain.WearVanilla) {
		return domain.WearVanilla
	}
	return wear
}
