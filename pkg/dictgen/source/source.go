package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/dictgen/pkg/dictgen/internalerr"
)

// Stdin is the path that selects standard input
const Stdin = "-"

// Options controls how sources are turned into byte streams
type Options struct {
	HTML bool // reduce .html/.htm files to their visible text
	NFC  bool // compose decomposed Unicode sequences (и + ◌̆ → й)
}

type readCloser struct {
	io.Reader
	io.Closer
}

// Open returns the byte stream for path. Any failure wraps
// internalerr.ErrSourceUnavailable.
func Open(path string, opts Options) (io.ReadCloser, error) {
	var rc io.ReadCloser

	if path == Stdin {
		rc = io.NopCloser(os.Stdin)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w: %w", path, internalerr.ErrSourceUnavailable, err)
		}
		rc = f
	}

	if opts.HTML && IsHTML(path) {
		text, err := ExtractText(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w: %w", path, internalerr.ErrSourceUnavailable, err)
		}
		rc = io.NopCloser(strings.NewReader(text))
	}

	if opts.NFC {
		rc = readCloser{Reader: transform.NewReader(rc, norm.NFC), Closer: rc}
	}

	return rc, nil
}

// IsHTML reports whether path looks like an HTML document
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// ExtractText returns the text nodes of an HTML document, one space apart.
// Script, style and template contents are skipped.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return buf.String(), nil
}
