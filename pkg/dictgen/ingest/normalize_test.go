package ingest

import (
	"math/rand"
	"testing"
	"unicode/utf8"
)

func TestNormalizeASCII(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello", "hello"},
		{"Hello,", "hello"},
		{"GPT-4", "gpt-4"},
		{"\"quoted\"", "quoted"},
		{"e-mail@host.com", "e-mailhostcom"},
		{"[]{}()", ""},
		{"2024", "2024"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeString(tt.in); got != tt.want {
			t.Errorf("NormalizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCyrillic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ПРИВЕТ", "привет"},
		{"Привет!", "привет"},
		{"абвгдежзийклмнопрстуфхцчшщъыьэюя", "абвгдежзийклмнопрстуфхцчшщъыьэюя"},
		{"АБВГДЕЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯ", "абвгдежзийклмнопрстуфхцчшщъыьэюя"},
		{"«Набоков»", "набоков"},
		{"Ёж", "ж"},
		{"Москва-река", "москва-река"},
		{"Pushkin-Пушкин", "pushkin-пушкин"},
	}

	for _, tt := range tests {
		if got := NormalizeString(tt.in); got != tt.want {
			t.Errorf("NormalizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDropsBrokenSequences(t *testing.T) {
	// dangling lead bytes and stray continuation bytes vanish
	raw := []byte{'a', 0xd0, 0xd0, 0x9f, 0xd1, 0xff, 0x90, 'b', 0xd0}
	if got := Normalize(raw); got != "aпb" {
		t.Errorf("Normalize(%v) = %q, want %q", raw, got, "aпb")
	}
}

func TestNormalizeIdempotentAndClean(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []byte{'a', 'Z', '0', '-', ' ', '@', '`', 0xd0, 0xd1, 0x80, 0x8f, 0x90, 0x9f, 0xa0, 0xaf, 0xb0, 0xbf, 0xc2, 0xab}

	for i := 0; i < 2000; i++ {
		raw := make([]byte, rng.Intn(24))
		for j := range raw {
			if rng.Intn(3) == 0 {
				raw[j] = byte(rng.Intn(256))
			} else {
				raw[j] = alphabet[rng.Intn(len(alphabet))]
			}
		}

		once := Normalize(raw)
		twice := NormalizeString(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %v: %q then %q", raw, once, twice)
		}
		if !utf8.ValidString(once) {
			t.Fatalf("Normalize(%v) produced invalid UTF-8 %q", raw, once)
		}
		for _, r := range once {
			if !allowedRune(r) {
				t.Fatalf("Normalize(%v) produced disallowed rune %q", raw, r)
			}
		}
	}
}

func allowedRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r == '-':
		return true
	case r >= 'а' && r <= 'я':
		return true
	}
	return false
}
