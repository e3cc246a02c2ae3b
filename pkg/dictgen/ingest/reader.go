package ingest

import (
	"bufio"
	"io"
)

// MaxTokenLen is the fixed token width. Longer tokens are cut at this many
// bytes and the rest of the token is discarded.
const MaxTokenLen = 99

// TokenReader splits a byte stream into whitespace-delimited tokens
type TokenReader struct {
	r      *bufio.Reader
	maxLen int
	buf    []byte
}

// NewTokenReader wraps r. maxLen <= 0 selects MaxTokenLen.
func NewTokenReader(r io.Reader, maxLen int) *TokenReader {
	if maxLen <= 0 {
		maxLen = MaxTokenLen
	}
	return &TokenReader{
		r:      bufio.NewReader(r),
		maxLen: maxLen,
		buf:    make([]byte, 0, maxLen),
	}
}

// Next returns the next token, or io.EOF once the stream is exhausted.
// The returned slice is only valid until the following call.
func (t *TokenReader) Next() ([]byte, error) {
	t.buf = t.buf[:0]

	// Skip leading whitespace
	for {
		c, err := t.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if !isSpace(c) {
			t.buf = append(t.buf, c)
			break
		}
	}

	for {
		c, err := t.r.ReadByte()
		if err == io.EOF {
			return t.buf, nil
		}
		if err != nil {
			return nil, err
		}
		if isSpace(c) {
			return t.buf, nil
		}
		if len(t.buf) < t.maxLen {
			t.buf = append(t.buf, c)
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
