package relay

import (
	"strings"
	"unicode/utf8"
)

// EncodeASCII returns line as ASCII bytes, or an *EncodingError locating
// the first character outside 7-bit ASCII.
func EncodeASCII(line string) ([]byte, error) {
	for i := 0; i < len(line); i++ {
		if line[i] >= utf8.RuneSelf {
			r, _ := utf8.DecodeRuneInString(line[i:])
			return nil, &EncodingError{Offset: i, Char: r, Text: line}
		}
	}
	return []byte(line), nil
}

// decodeASCII renders a device response for display. Bytes outside ASCII
// (line noise while the board resets) are shown as '?'.
func decodeASCII(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		if c >= utf8.RuneSelf {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
