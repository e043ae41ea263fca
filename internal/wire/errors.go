package wire

import (
	"errors"
	"fmt"
)

var (
	ErrUnimplementedWireType = errors.New("wire: unimplemented wire type")
	ErrMalformedFraming      = errors.New("wire: malformed framing")
	ErrDepthExceeded         = errors.New("wire: nesting depth exceeded")
)

// Error locates a decode failure. Err is one of the sentinel errors above.
type Error struct {
	Offset int
	Depth  int
	Type   Type
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v (type=%d offset=%d depth=%d)", e.Err, uint8(e.Type), e.Offset, e.Depth)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorKind returns a short label for err, or "" when err is not a wire error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnimplementedWireType):
		return "unimplemented_wire_type"
	case errors.Is(err, ErrMalformedFraming):
		return "malformed_framing"
	case errors.Is(err, ErrDepthExceeded):
		return "depth_exceeded"
	default:
		return ""
	}
}

// speculative reports whether err is a failure a nested-message guess may
// absorb. Depth failures are not among them.
func speculative(err error) bool {
	return errors.Is(err, ErrUnimplementedWireType) || errors.Is(err, ErrMalformedFraming)
}
