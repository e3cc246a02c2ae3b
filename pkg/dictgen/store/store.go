package store

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/dictgen/pkg/dictgen/model"
)

// Store receives a snapshot of a finished frequency model.
// Exports are write-once per run; nothing reloads them into a model.
type Store interface {
	Close() error

	SaveModel(ctx context.Context, run Run, m *model.Model) error

	// Inspection
	Runs(ctx context.Context) ([]Run, error)
	UnigramCount(ctx context.Context, runID, word string) (int64, bool, error)
	TopBigrams(ctx context.Context, runID, word string, k int) ([]model.Bigram, error)
}

// Run describes one dictionary build
type Run struct {
	ID          string // ULID
	CreatedAt   time.Time
	Locale      string
	Sources     []string
	TotalTokens int64
	MaxCount    int64
	Unigrams    int
	Bigrams     int
}

// NewRun creates a run record with a fresh ULID
func NewRun(now time.Time, locale string, sources []string) Run {
	return Run{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		CreatedAt: now.UTC(),
		Locale:    locale,
		Sources:   append([]string(nil), sources...),
	}
}

// WithStats copies the model summary into the run
func (r Run) WithStats(s model.Stats) Run {
	r.TotalTokens = s.TotalTokens
	r.MaxCount = s.MaxCount
	r.Unigrams = s.Unigrams
	r.Bigrams = s.Bigrams
	return r
}
