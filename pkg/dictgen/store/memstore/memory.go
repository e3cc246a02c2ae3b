package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/dictgen/pkg/dictgen/internalerr"
	"github.com/cognicore/dictgen/pkg/dictgen/model"
	"github.com/cognicore/dictgen/pkg/dictgen/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	runs     map[string]store.Run
	unigrams map[string]map[string]int64           // run -> word -> count
	bigrams  map[string]map[string]map[string]int64 // run -> word -> next -> count
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:     make(map[string]store.Run),
		unigrams: make(map[string]map[string]int64),
		bigrams:  make(map[string]map[string]map[string]int64),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveModel copies the model under run.ID.
func (s *Store) SaveModel(ctx context.Context, run store.Run, m *model.Model) error {
	if run.ID == "" || m == nil {
		return internalerr.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("run %s: %w", run.ID, internalerr.ErrDuplicate)
	}

	unigrams := make(map[string]int64, m.Len())
	bigrams := make(map[string]map[string]int64, m.Len())
	for _, u := range m.Ranked() {
		unigrams[u.Word] = u.Count
		if u.NumBigrams() == 0 {
			continue
		}
		next := make(map[string]int64, u.NumBigrams())
		for _, b := range u.TopBigrams(0) {
			next[b.Word] = b.Count
		}
		bigrams[u.Word] = next
	}

	run.Sources = append([]string(nil), run.Sources...)
	s.runs[run.ID] = run
	s.unigrams[run.ID] = unigrams
	s.bigrams[run.ID] = bigrams
	return nil
}

// Runs returns all saved runs ordered by ID.
func (s *Store) Runs(ctx context.Context) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		r.Sources = append([]string(nil), r.Sources...)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UnigramCount returns the stored count of word in a run.
func (s *Store) UnigramCount(ctx context.Context, runID, word string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count, ok := s.unigrams[runID][word]
	return count, ok, nil
}

// TopBigrams returns the k most frequent successors of word in a run.
func (s *Store) TopBigrams(ctx context.Context, runID, word string, k int) ([]model.Bigram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	next := s.bigrams[runID][word]
	out := make([]model.Bigram, 0, len(next))
	for w, c := range next {
		out = append(out, model.Bigram{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}
