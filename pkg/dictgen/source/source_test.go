package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/dictgen/pkg/dictgen/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readSource(t *testing.T, path string, opts Options) string {
	t.Helper()
	rc, err := Open(path, opts)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return string(data)
}

func TestOpenPlainText(t *testing.T) {
	path := writeFile(t, "corpus.txt", "the cat sat\n")

	if got := readSource(t, path, Options{HTML: true}); got != "the cat sat\n" {
		t.Errorf("Expected file contents unchanged, got %q", got)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"), Options{})
	if !errors.Is(err, internalerr.ErrSourceUnavailable) {
		t.Errorf("Expected ErrSourceUnavailable, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected underlying not-exist error, got %v", err)
	}
}

func TestOpenHTML(t *testing.T) {
	doc := `<html><head><title>Заголовок</title><style>p { color: red }</style>
<script>var hidden = 1;</script></head>
<body><p>Привет,<b>мир</b></p><p>second paragraph</p></body></html>`
	path := writeFile(t, "page.html", doc)

	got := readSource(t, path, Options{HTML: true})

	for _, want := range []string{"Заголовок", "Привет,", "мир", "second paragraph"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in extracted text %q", want, got)
		}
	}
	for _, unwanted := range []string{"hidden", "color", "<p>"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("Did not expect %q in extracted text %q", unwanted, got)
		}
	}
	if strings.Contains(got, "Привет,мир") {
		t.Error("Text nodes should be separated by whitespace")
	}
}

func TestOpenHTMLDisabled(t *testing.T) {
	path := writeFile(t, "page.htm", "<p>raw</p>")

	if got := readSource(t, path, Options{}); got != "<p>raw</p>" {
		t.Errorf("Expected raw markup when HTML handling is off, got %q", got)
	}
}

func TestOpenNFC(t *testing.T) {
	decomposed := "\u0438\u0306од"
	path := writeFile(t, "nfd.txt", decomposed)

	if got := readSource(t, path, Options{NFC: true}); got != "\u0439од" {
		t.Errorf("Expected composed text, got %q", got)
	}
	if got := readSource(t, path, Options{}); got != decomposed {
		t.Errorf("Expected untouched text without NFC, got %q", got)
	}
}

func TestIsHTML(t *testing.T) {
	tests := map[string]bool{
		"a.html":     true,
		"b.HTM":      true,
		"c.xhtml":    true,
		"d.txt":      false,
		"-":          false,
		"html":       false,
		"dir/x.html": true,
	}
	for path, want := range tests {
		if got := IsHTML(path); got != want {
			t.Errorf("IsHTML(%q) = %v, want %v", path, got, want)
		}
	}
}
