package dict

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/cognicore/dictgen/pkg/dictgen/internalerr"
	"github.com/cognicore/dictgen/pkg/dictgen/model"
)

// Dictionary header constants
const (
	Identifier = "main"
	Version    = 54
	Date       = 1739810145
)

// Frequency scale
const (
	MinFreq = 1
	MaxFreq = 255

	// scaleTarget is the value the most frequent word is scaled towards
	scaleTarget = 240
)

// TopBigrams is the number of successors listed under each word
const TopBigrams = 5

// Defaults
const (
	DefaultMinF   = 150
	DefaultLocale = "ru"
)

// Options controls rendering. They never affect ingestion.
type Options struct {
	MinF        int    // floor-boost threshold, 0..255
	Locale      string // embedded verbatim in the header
	Description string // defaults to "<locale> dictionary"
}

// DefaultOptions returns the default rendering options
func DefaultOptions() Options {
	return Options{
		MinF:   DefaultMinF,
		Locale: DefaultLocale,
	}
}

// Validate checks the options are usable
func (o Options) Validate() error {
	if o.MinF < 0 || o.MinF > MaxFreq {
		return fmt.Errorf("%w: min frequency %d outside [0,%d]", internalerr.ErrInvalidConfig, o.MinF, MaxFreq)
	}
	if strings.TrimSpace(o.Locale) == "" {
		return fmt.Errorf("%w: locale is required", internalerr.ErrInvalidConfig)
	}
	if strings.ContainsAny(o.Locale+o.Description, ",\n") {
		return fmt.Errorf("%w: locale and description must not contain ',' or newlines", internalerr.ErrInvalidConfig)
	}
	return nil
}

func (o Options) description() string {
	if o.Description != "" {
		return o.Description
	}
	return o.Locale + " dictionary"
}

// Writer renders a frequency model as a predictive-input dictionary
type Writer struct {
	opts Options
}

// NewWriter creates a writer, rejecting invalid options
func NewWriter(opts Options) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Writer{opts: opts}, nil
}

// Write renders m to out.
//
// Words are listed by descending count, each followed by up to TopBigrams
// successors by descending count; ties are ordered by word. maxCount is the
// highest unigram count in m and sets the scale factor.
func (w *Writer) Write(out io.Writer, m *model.Model, maxCount int64) error {
	bw := bufio.NewWriter(out)

	fmt.Fprintf(bw, "dictionary=%s:%s,locale=%s,description=%s,date=%d,version=%d\n",
		Identifier, w.opts.Locale, w.opts.Locale, w.opts.description(), Date, Version)

	if m == nil || m.Len() == 0 {
		return bw.Flush()
	}

	factor := ScaleFactor(maxCount)

	for _, u := range m.Ranked() {
		f := Scale(u.Count, factor)
		if u.NumBigrams() > 1 {
			f = Boost(f, w.opts.MinF)
		}
		fmt.Fprintf(bw, " word=%s,f=%d,flags=,originalFreq=%d\n", u.Word, f, f)

		for _, b := range u.TopBigrams(TopBigrams) {
			fb := Boost(Scale(b.Count+m.Count(b.Word), factor), w.opts.MinF)
			fmt.Fprintf(bw, "  bigram=%s,f=%d\n", b.Word, fb)
		}
	}

	return bw.Flush()
}

// Render returns the dictionary as a string
func (w *Writer) Render(m *model.Model, maxCount int64) (string, error) {
	var sb strings.Builder
	if err := w.Write(&sb, m, maxCount); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ScaleFactor returns round(maxCount/240), never below 1
func ScaleFactor(maxCount int64) float64 {
	factor := math.Round(float64(maxCount) / scaleTarget)
	if factor < 1 {
		return 1
	}
	return factor
}

// Scale maps a raw count onto [MinFreq, MaxFreq]
func Scale(count int64, factor float64) int {
	f := math.Round(float64(count) / factor)
	switch {
	case f < MinFreq:
		return MinFreq
	case f > MaxFreq:
		return MaxFreq
	}
	return int(f)
}

// Boost raises f by minF when f falls below minF, capped at MaxFreq
func Boost(f, minF int) int {
	if f >= minF {
		return f
	}
	if f+minF > MaxFreq {
		return MaxFreq
	}
	return f + minF
}
