// Package variants turns an item descriptor into the market names it may be listed under.
//
// The reference table keys every item by one exact market_hash_name, while the inventory
// markup spreads the same facts (condition, StatTrak, agent identity) over several layouts.
// Generate enumerates the layouts the catalog is known to use, most specific first.
package variants

import (
	"strings"

	"skinpricer/internal/domain"
)

// Generate returns the ordered, de-duplicated candidate names for d.
// Candidates are whitespace-collapsed; duplicates are detected case-insensitively
// and the first spelling wins. Empty candidates are dropped.
func Generate(d domain.ItemDescriptor) []string {
	var raw []string
	switch {
	case d.IsAgent:
		raw = agentCandidates(d)
	case d.IsKnife:
		raw = knifeCandidates(d)
	case d.IsGloves:
		raw = glovesCandidates(d)
	default:
		raw = skinCandidates(d)
	}
	return dedupe(raw)
}

func agentCandidates(d domain.ItemDescriptor) []string {
	base := d.Name
	names := []string{base}
	if d.Wear != "" {
		names = append(names, base+domain.FieldSeparator+d.Wear)
	}
	names = append(names,
		"Agent"+domain.FieldSeparator+base,
		base+domain.FieldSeparator+"Agent",
		strings.ReplaceAll(base, domain.FieldSeparator, ", "),
	)
	if reversed, ok := reverseFields(base); ok {
		names = append(names, reversed)
	}

	if !d.IsStatTrak() {
		return names
	}

	out := make([]string, 0, len(names)*3)
	out = append(out, names...)
	for _, name := range names {
		out = append(out,
			domain.Decorate(name, false, true, false),
			domain.Decorate(name, true, true, false),
		)
	}
	return out
}

func knifeCandidates(d domain.ItemDescriptor) []string {
	st := d.IsStatTrak()
	suffix := wearSuffix(d)
	return []string{
		domain.Decorate(d.Name, true, st, false) + suffix,
		domain.Decorate(d.Name, false, st, false) + suffix,
		domain.Decorate(d.Name, true, false, false) + suffix,
		d.Name + suffix,
		d.Wear,
	}
}

func glovesCandidates(d domain.ItemDescriptor) []string {
	st := d.IsStatTrak()
	suffix := wearSuffix(d)
	return []string{
		domain.Decorate(d.Name, true, st, false) + suffix,
		domain.Decorate(d.Name, false, st, false) + suffix,
		domain.Decorate(d.Name, true, false, false) + suffix,
		d.Name + suffix,
		domain.Decorate(d.Name, true, st, false),
		d.Name,
		d.Wear,
	}
}

func skinCandidates(d domain.ItemDescriptor) []string {
	suffix := wearSuffix(d)
	return []string{
		domain.Decorate(d.Name, false, d.IsStatTrak(), d.IsSouvenir()) + suffix,
		domain.Decorate(d.Name, false, d.IsStatTrak(), false) + suffix,
		d.Name + suffix,
		d.Wear,
	}
}

func wearSuffix(d domain.ItemDescriptor) string {
	if !d.HasGradedWear() {
		return ""
	}
	return " (" + d.Wear + ")"
}

// reverseFields swaps the first two pipe-delimited fields: "A | B" becomes "B | A".
func reverseFields(name string) (string, bool) {
	fields := strings.Split(name, domain.FieldSeparator)
	if len(fields) < 2 {
		return "", false
	}
	fields[0], fields[1] = fields[1], fields[0]
	return strings.Join(fields, domain.FieldSeparator), true
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = domain.Collapse(name)
		if name == "" {
			continue
		}
		key := domain.NameKey(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
