package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, tr *TokenReader) []string {
	t.Helper()
	var tokens []string
	for {
		tok, err := tr.Next()
		if err == io.EOF {
			return tokens
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		tokens = append(tokens, string(tok))
	}
}

func TestTokenReaderSplits(t *testing.T) {
	tr := NewTokenReader(strings.NewReader("  the cat\tsat\r\non\v\fthe mat\n"), 0)
	tokens := readAll(t, tr)

	want := []string{"the", "cat", "sat", "on", "the", "mat"}
	if len(tokens) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("Token %d: expected %q, got %q", i, want[i], tokens[i])
		}
	}
}

func TestTokenReaderEmpty(t *testing.T) {
	for _, input := range []string{"", "   \n\t  "} {
		tr := NewTokenReader(strings.NewReader(input), 0)
		if tokens := readAll(t, tr); len(tokens) != 0 {
			t.Errorf("Input %q: expected no tokens, got %v", input, tokens)
		}
	}
}

func TestTokenReaderTruncates(t *testing.T) {
	long := strings.Repeat("x", 10) + strings.Repeat("y", 10)
	tr := NewTokenReader(strings.NewReader(long+" next"), 10)
	tokens := readAll(t, tr)

	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %v", tokens)
	}
	if tokens[0] != strings.Repeat("x", 10) {
		t.Errorf("Expected truncated token, got %q", tokens[0])
	}
	if tokens[1] != "next" {
		t.Errorf("Expected remainder to be discarded, got %q", tokens[1])
	}
}

func TestTokenReaderDefaultWidth(t *testing.T) {
	long := strings.Repeat("a", MaxTokenLen+50)
	tr := NewTokenReader(strings.NewReader(long), 0)
	tokens := readAll(t, tr)

	if len(tokens) != 1 || len(tokens[0]) != MaxTokenLen {
		t.Errorf("Expected one token of %d bytes, got %v", MaxTokenLen, len(tokens))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestTokenReaderPropagatesErrors(t *testing.T) {
	tr := NewTokenReader(failingReader{}, 0)
	if _, err := tr.Next(); err == nil || err == io.EOF {
		t.Errorf("Expected read error, got %v", err)
	}
}
