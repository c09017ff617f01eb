package hrml

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTag means an opening line did not yield a name followed by key/value pairs.
	ErrMalformedTag = errors.New("malformed tag")
	// ErrMalformedQuery means a query line has no '~' separating path and attribute.
	ErrMalformedQuery = errors.New("malformed query")
	// ErrUnbalanced means opening and closing lines do not pair up.
	ErrUnbalanced = errors.New("unbalanced tags")
	// ErrBadHeader means the leading line counts could not be read.
	ErrBadHeader = errors.New("bad header")
	// ErrUnexpectedEOF means the input ended before the announced number of lines.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
)

// SyntaxError locates a malformed input line.
// Err wraps one of the sentinel errors above. Msg adds detail and may be empty.
type SyntaxError struct {
	Filename string
	Line     int
	Msg      string
	Err      error
}

func (e *SyntaxError) Error() string {
	msg := e.Err.Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", e.Filename, msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
