package meshio

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind int

const (
	// ArgumentShape covers malformed arguments: unknown or destroyed buffers,
	// parallel sequences of different lengths, ragged attribute vectors.
	ArgumentShape ErrorKind = iota + 1
	// CountMismatch is an entity-keyed sequence whose length does not match
	// the buffer's count for that entity.
	CountMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ArgumentShape:
		return "argument shape"
	case CountMismatch:
		return "count mismatch"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is.
var (
	ErrArgumentShape = errors.New("argument shape error")
	ErrCountMismatch = errors.New("count mismatch")
)

// Error is returned by every locally detected failure. The operation that
// failed leaves the buffer untouched.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("meshio: %s: %s", e.Op, e.Msg)
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrArgumentShape:
		return e.Kind == ArgumentShape
	case ErrCountMismatch:
		return e.Kind == CountMismatch
	}
	return false
}

func shapeErrorf(op, format string, args ...interface{}) error {
	return &Error{Kind: ArgumentShape, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func countErrorf(op, format string, args ...interface{}) error {
	return &Error{Kind: CountMismatch, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (b *Buffer) checkLive(op string) error {
	if b == nil {
		return shapeErrorf(op, "nil buffer")
	}
	if b.destroyed {
		return shapeErrorf(op, "buffer has been destroyed")
	}
	return nil
}
