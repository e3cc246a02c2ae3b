package dictgen

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/dictgen/pkg/dictgen/config"
	"github.com/cognicore/dictgen/pkg/dictgen/dict"
	"github.com/cognicore/dictgen/pkg/dictgen/ingest"
	"github.com/cognicore/dictgen/pkg/dictgen/model"
	"github.com/cognicore/dictgen/pkg/dictgen/source"
	"github.com/cognicore/dictgen/pkg/dictgen/store"
)

// Generator builds one dictionary from a set of sources
type Generator struct {
	cfg    config.Config
	writer *dict.Writer
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// Options configures a Generator
type Options struct {
	Config config.Config
	Store  store.Store // optional model export
	Logger *zap.Logger
	Now    func() time.Time
}

// Result summarizes a finished run
type Result struct {
	Run   store.Run
	Stats model.Stats
}

// New creates a Generator, validating the configuration
func New(opts Options) (*Generator, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	w, err := dict.NewWriter(opts.Config.DictOptions())
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:    opts.Config,
		writer: w,
		store:  opts.Store,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g, nil
}

// Run ingests every path in order into one model, then renders the
// dictionary to out and exports the model when a store is configured.
//
// Sources are read one after another; the first unavailable source aborts
// the run before anything is written to out.
func (g *Generator) Run(ctx context.Context, paths []string, out io.Writer) (Result, error) {
	run := store.NewRun(g.now(), g.cfg.Locale, paths)
	logger := g.logger.With(zap.String("run", run.ID))

	m := model.New()
	builder := ingest.NewBuilder(m, ingest.WithLogger(logger))

	var maxCount int64
	for _, path := range paths {
		added, top, err := g.ingest(builder, path)
		if err != nil {
			return Result{Run: run}, err
		}
		maxCount = top
		logger.Info("source done",
			zap.String("source", path),
			zap.Int("new_unigrams", added),
			zap.Int("unigrams", m.Len()))
	}

	if err := g.writer.Write(out, m, maxCount); err != nil {
		return Result{Run: run}, fmt.Errorf("write dictionary: %w", err)
	}

	stats := m.Stats()
	run = run.WithStats(stats)

	if g.store != nil {
		if err := g.store.SaveModel(ctx, run, m); err != nil {
			return Result{Run: run, Stats: stats}, fmt.Errorf("export model: %w", err)
		}
		logger.Info("model exported")
	}

	logger.Info("dictionary written",
		zap.Int("sources", len(paths)),
		zap.Int64("tokens", stats.TotalTokens),
		zap.Int("unigrams", stats.Unigrams),
		zap.Int("bigrams", stats.Bigrams),
		zap.Int64("max_count", stats.MaxCount))

	return Result{Run: run, Stats: stats}, nil
}

func (g *Generator) ingest(builder *ingest.Builder, path string) (int, int64, error) {
	rc, err := source.Open(path, g.cfg.SourceOptions())
	if err != nil {
		return 0, 0, err
	}
	defer rc.Close()

	return builder.Ingest(path, rc)
}
