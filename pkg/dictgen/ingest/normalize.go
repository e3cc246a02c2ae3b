package ingest

// Lead bytes of the two-byte UTF-8 Cyrillic block kept by Normalize.
const (
	cyrLeadLow  = 0xd0 // А..Я, а..п
	cyrLeadHigh = 0xd1 // р..я
)

// Normalize canonicalizes a raw token into the form used as a model key.
//
// Kept: ASCII digits, ASCII letters (lowercased), '-', and the Cyrillic
// letters U+0410..U+044F (lowercased). Every other byte is dropped. The
// result is empty when nothing survives; callers discard empty tokens.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw []byte) string {
	out := make([]byte, 0, len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c == '-':
			out = append(out, c)
			continue
		case c >= 'A' && c <= 'Z':
			out = append(out, c+32)
			continue
		}

		if i+1 >= len(raw) {
			continue
		}
		next := raw[i+1]

		switch {
		case c == cyrLeadLow && next >= 0x90 && next <= 0x9f:
			// А..П -> а..п
			out = append(out, cyrLeadLow, next+32)
			i++
		case c == cyrLeadLow && next >= 0xa0 && next <= 0xaf:
			// Р..Я -> р..я, which live under the next lead byte
			out = append(out, cyrLeadHigh, next-32)
			i++
		case c == cyrLeadLow && next >= 0xb0 && next <= 0xbf,
			c == cyrLeadHigh && next >= 0x80 && next <= 0x8f:
			out = append(out, c, next)
			i++
		}
	}

	return string(out)
}

// NormalizeString is Normalize for string input
func NormalizeString(raw string) string {
	return Normalize([]byte(raw))
}
