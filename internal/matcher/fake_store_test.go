package matcher

import (
	"context"
	"errors"
	"strings"
	"sync"

	"skinpricer/internal/domain"
	"skinpricer/internal/repository"
)

var errBoom = errors.New("boom")

// fakeStore is an in-memory catalog that records calls and can fail on demand.
type fakeStore struct {
	mu            sync.Mutex
	records       map[string]domain.CatalogRecord
	acquireErr    error
	failChunks    map[int]bool // 0-based LookupExact call numbers that fail
	failContains  bool
	pingErr       error
	exactCalls    int
	chunkSizes    []int
	containsCalls int
	acquired      int
	released      int
}

func newFakeStore(records ...domain.CatalogRecord) *fakeStore {
	s := &fakeStore{records: map[string]domain.CatalogRecord{}, failChunks: map[int]bool{}}
	for _, r := range records {
		s.records[r.CanonicalName] = r
	}
	return s
}

func (s *fakeStore) Acquire(ctx context.Context) (repository.CatalogSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.acquired++
	return &fakeSession{store: s}, nil
}

func (s *fakeStore) UpsertRecords(ctx context.Context, records []domain.CatalogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.CanonicalName] = r
	}
	return nil
}

func (s *fakeStore) Migrate(ctx context.Context) error { return nil }

func (s *fakeStore) Close() {}

type fakeSession struct {
	store *fakeStore
	once  sync.Once
}

func (f *fakeSession) LookupExact(ctx context.Context, names []string) ([]domain.CatalogRecord, error) {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()

	call := s.exactCalls
	s.exactCalls++
	s.chunkSizes = append(s.chunkSizes, len(names))
	if s.failChunks[call] {
		return nil, errBoom
	}

	var out []domain.CatalogRecord
	for _, name := range names {
		if r, ok := s.records[name]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSession) LookupContains(ctx context.Context, first, second string, limit int) ([]domain.CatalogRecord, error) {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.containsCalls++
	if s.failContains {
		return nil, errBoom
	}

	var out []domain.CatalogRecord
	for name, r := range s.records {
		lower := strings.ToLower(name)
		if strings.Contains(lower, strings.ToLower(first)) && strings.Contains(lower, strings.ToLower(second)) {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSession) Ping(ctx context.Context) error {
	return f.store.pingErr
}

func (f *fakeSession) Release() {
	f.once.Do(func() {
		f.store.mu.Lock()
		f.store.released++
		f.store.mu.Unlock()
	})
}
