package matcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skinpricer/internal/config"
	"skinpricer/internal/domain"
	"skinpricer/internal/repository"
	"skinpricer/internal/variants"

	log "github.com/sirupsen/logrus"
)

// Matches maps a descriptor ordinal to its catalog record. Absent ordinals are unmatched.
type Matches map[int]domain.CatalogRecord

type Matcher struct {
	store           repository.CatalogStore
	chunkSize       int
	fallbackEnabled bool
}

func NewMatcher(store repository.CatalogStore, cfg config.MatchingConfig) *Matcher {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 1
	}
	return &Matcher{
		store:           store,
		chunkSize:       chunkSize,
		fallbackEnabled: cfg.FallbackEnabled,
	}
}

// Match resolves each descriptor to at most one catalog record.
//
// Exact names are looked up in chunks over a single store session. A failed chunk only
// leaves its names unmatched; the batch fails when the session cannot be acquired or when
// every chunk fails and the store no longer answers a ping. Agents still unmatched
// afterwards get one substring lookup each.
func (m *Matcher) Match(ctx context.Context, descriptors []domain.ItemDescriptor) (Matches, error) {
	matches := make(Matches, len(descriptors))
	if len(descriptors) == 0 {
		return matches, nil
	}

	// index is case-folded; names keeps every distinct spelling since lookups are exact
	candidates := make([][]string, len(descriptors))
	index := make(map[string][]int)
	sent := make(map[string]struct{})
	names := make([]string, 0, len(descriptors)*4)
	for pos, d := range descriptors {
		candidates[pos] = variants.Generate(d)
		for _, name := range candidates[pos] {
			if _, ok := sent[name]; !ok {
				sent[name] = struct{}{}
				names = append(names, name)
			}
			key := domain.NameKey(name)
			index[key] = append(index[key], pos)
		}
	}

	session, err := m.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Release()

	records, err := m.lookupExact(ctx, session, names)
	if err != nil {
		return nil, err
	}

	// rank of the best candidate seen per descriptor position; lower wins
	bestRank := make(map[int]int)
	for _, record := range records {
		key := domain.NameKey(record.CanonicalName)
		for _, pos := range index[key] {
			rank := candidateRank(candidates[pos], key)
			if current, ok := bestRank[pos]; ok && current <= rank {
				continue
			}
			bestRank[pos] = rank
			matches[descriptors[pos].Ordinal] = record
		}
	}

	log.Debugf("Exact lookup matched %d of %d items", len(matches), len(descriptors))

	if m.fallbackEnabled {
		m.matchAgentsApproximately(ctx, session, descriptors, matches)
	}

	return matches, nil
}

func (m *Matcher) lookupExact(ctx context.Context, session repository.CatalogSession, names []string) ([]domain.CatalogRecord, error) {
	var (
		records  []domain.CatalogRecord
		failures []error
		chunks   int
	)

	for start := 0; start < len(names); start += m.chunkSize {
		end := min(start+m.chunkSize, len(names))
		chunks++

		found, err := session.LookupExact(ctx, names[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("catalog lookup cancelled: %w", ctx.Err())
			}
			chunkErr := fmt.Errorf("%w: names %d-%d: %w", domain.ErrChunkLookupFailed, start, end-1, err)
			log.Warnf("⚠️ %v", chunkErr)
			failures = append(failures, chunkErr)
			continue
		}
		records = append(records, found...)
	}

	if chunks > 0 && len(failures) == chunks {
		if err := session.Ping(ctx); err != nil {
			return nil, fmt.Errorf("%w: all %d lookup chunks failed: %w", domain.ErrStoreUnavailable, chunks, errors.Join(append(failures, err)...))
		}
		log.Errorf("❌ All %d lookup chunks failed but the store is reachable, leaving items unmatched: %v", chunks, errors.Join(failures...))
	}

	return records, nil
}

func (m *Matcher) matchAgentsApproximately(ctx context.Context, session repository.CatalogSession, descriptors []domain.ItemDescriptor, matches Matches) {
	for _, d := range descriptors {
		if !d.IsAgent {
			continue
		}
		if _, ok := matches[d.Ordinal]; ok {
			continue
		}

		fields := strings.Split(d.Name, domain.FieldSeparator)
		if len(fields) < 2 {
			continue
		}
		first, second := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
		if first == "" || second == "" {
			continue
		}

		found, err := session.LookupContains(ctx, first, second, 1)
		if err != nil {
			log.Warnf("⚠️ %v", fmt.Errorf("%w: agent %q: %w", domain.ErrFallbackLookupFailed, d.Name, err))
			continue
		}
		if len(found) == 0 {
			log.Debugf("No approximate match for agent %q", d.Name)
			continue
		}

		log.Debugf("Approximate match for agent %q: %q", d.Name, found[0].CanonicalName)
		matches[d.Ordinal] = found[0]
	}
}

func candidateRank(candidates []string, key string) int {
	for i, name := range candidates {
		if domain.NameKey(name) == key {
			return i
		}
	}
	return len(candidates)
}
