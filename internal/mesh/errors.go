package mesh

import (
	"errors"
	"fmt"
)

var (
	ErrBadNumber     = errors.New("mesh: malformed number")
	ErrShortRecord   = errors.New("mesh: record has too few fields")
	ErrIndexRange    = errors.New("mesh: face index out of range")
	ErrIndexOverflow = errors.New("mesh: too many vertices for 16-bit indices")
	ErrNotWatchable  = errors.New("mesh: source cannot be watched")
	ErrNotStarted    = errors.New("mesh: loader not started")
)

// ParseError reports the OBJ line that could not be used.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
