package ingest

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cognicore/dictgen/pkg/dictgen/internalerr"
	"github.com/cognicore/dictgen/pkg/dictgen/model"
)

// Builder folds token streams into a shared frequency model:
// bytes → tokens → Normalize → unigram and bigram counts
type Builder struct {
	model  *model.Model
	maxLen int
	logger *zap.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger used for per-source summaries
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMaxTokenLen overrides MaxTokenLen
func WithMaxTokenLen(n int) Option {
	return func(b *Builder) {
		b.maxLen = n
	}
}

// NewBuilder creates a builder that accumulates into m
func NewBuilder(m *model.Model, opts ...Option) *Builder {
	b := &Builder{
		model:  m,
		maxLen: MaxTokenLen,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Model returns the model the builder writes to
func (b *Builder) Model() *model.Model {
	return b.model
}

// Ingest reads one source to the end and folds it into the model.
//
// Each normalized token bumps its own count and, unless it is the first
// token of the source, the count of the bigram from the preceding token.
// Tokens that normalize to nothing are skipped and do not break adjacency.
// The preceding token is forgotten between sources.
//
// It returns the number of words seen for the first time and the highest
// unigram count in the model afterwards.
func (b *Builder) Ingest(name string, r io.Reader) (int, int64, error) {
	tr := NewTokenReader(r, b.maxLen)

	var (
		prev   *model.Unigram
		added  int
		tokens int64
	)

	for {
		raw, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return added, b.model.MaxCount(), fmt.Errorf("read %s: %w: %w", name, internalerr.ErrSourceUnavailable, err)
		}

		word := Normalize(raw)
		if word == "" {
			continue
		}
		tokens++

		if prev != nil {
			prev.Follow(word)
		}

		cur, created := b.model.Observe(word)
		if created {
			added++
		}
		prev = cur
	}

	b.logger.Debug("source ingested",
		zap.String("source", name),
		zap.Int64("tokens", tokens),
		zap.Int("new_unigrams", added),
		zap.Int64("max_count", b.model.MaxCount()))

	return added, b.model.MaxCount(), nil
}
