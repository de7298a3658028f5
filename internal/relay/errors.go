package relay

import (
	"fmt"
)

// OpenError reports that the device could not be opened. It is fatal: the
// relay never retries.
type OpenError struct {
	Port string
	Err  error
}

// Error implements error.
func (e *OpenError) Error() string {
	return fmt.Sprintf("opening device %s: %v", e.Port, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// EncodingError reports an input line that cannot be sent as ASCII.
type EncodingError struct {
	Line   int    // 1-based line number in the relay run, 0 when unknown
	Offset int    // byte offset of the offending character
	Char   rune   // the offending character
	Text   string // the rejected line
}

// Error implements error.
func (e *EncodingError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: non-ASCII character %q at offset %d", e.Line, e.Char, e.Offset)
	}
	return fmt.Sprintf("non-ASCII character %q at offset %d", e.Char, e.Offset)
}
