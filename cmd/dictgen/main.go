package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cognicore/dictgen/pkg/dictgen"
	"github.com/cognicore/dictgen/pkg/dictgen/config"
	"github.com/cognicore/dictgen/pkg/dictgen/store"
	"github.com/cognicore/dictgen/pkg/dictgen/store/sqlite"
)

var errUsage = errors.New("usage")

// parseArgs merges the optional config file with command-line flags.
// Flags that were set explicitly win over the file.
func parseArgs(args []string, stderr io.Writer) (config.Config, []string, error) {
	fs := flag.NewFlagSet("dictgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  = fs.String("config", "", "Path to YAML config file (optional)")
		minF        = fs.Int("min-f", 0, "Floor-boost threshold for output frequencies, 0-255 (default 150)")
		locale      = fs.String("locale", "", "Locale tag written to the header (default ru)")
		description = fs.String("description", "", "Description written to the header (default \"<locale> dictionary\")")
		export      = fs.String("export", "", "Export the model to this SQLite file (optional)")
		noHTML      = fs.Bool("no-html", false, "Read .html/.htm sources as plain text")
		nfc         = fs.Bool("nfc", false, "Apply Unicode NFC composition before tokenizing")
		logLevel    = fs.String("log-level", "", "Log level: debug, info, warn, error (default info)")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: dictgen [flags] <file_1> <file_2> ... <file_n>\n"+
			"Files must be utf8 encoded; '-' reads standard input.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return config.Config{}, nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return config.Config{}, nil, errUsage
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = *loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-f":
			cfg.MinF = *minF
		case "locale":
			cfg.Locale = *locale
		case "description":
			cfg.Description = *description
		case "export":
			cfg.Export = *export
		case "no-html":
			cfg.HTML = !*noHTML
		case "nfc":
			cfg.NFC = *nfc
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

// newLogger writes JSON logs to stderr; stdout carries the dictionary.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	cfgZap := zap.NewProductionConfig()
	cfgZap.Level.SetLevel(lvl)
	cfgZap.OutputPaths = []string{"stderr"}
	cfgZap.ErrorOutputPaths = []string{"stderr"}
	return cfgZap.Build()
}

// openStore opens the export store, or returns nil when export is off.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.Export == "" {
		return nil, nil
	}
	return sqlite.OpenSQLite(ctx, cfg.Export)
}

func run(ctx context.Context, cfg config.Config, paths []string, out io.Writer, logger *zap.Logger) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open export %s: %w", cfg.Export, err)
	}
	if st != nil {
		defer st.Close()
	}

	g, err := dictgen.New(dictgen.Options{
		Config: cfg,
		Store:  st,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	_, err = g.Run(ctx, paths, out)
	return err
}

func main() {
	cfg, paths, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, paths, os.Stdout, logger); err != nil {
		logger.Fatal("dictionary build failed", zap.Error(err))
	}
}
