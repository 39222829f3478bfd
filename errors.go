package flatvec

import (
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
)

var (
	ErrIndexType       = errors.New("index must be an integer")
	ErrIndexOutOfRange = errors.New("vector index out of range")
	ErrInvalidOffset   = errors.New("offset does not address a vector")
	ErrInvalidElement  = errors.New("invalid element decoder")
	ErrOutOfBounds     = errors.New("read outside buffer")
	ErrFieldNotPresent = errors.New("field not present")
	ErrReleased        = errors.New("table released")
)

// IndexTypeError is returned by At when the index is not an integer.
type IndexTypeError struct {
	Value any
}

func (e *IndexTypeError) Error() string {
	if s, ok := e.Value.(string); ok {
		return fmt.Sprintf("index must be an integer, got %q", s)
	}
	return fmt.Sprintf("index must be an integer, not %T", e.Value)
}

func (e *IndexTypeError) Is(target error) bool { return target == ErrIndexType }

// IndexOutOfRangeError reports an index outside [0, Length).
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("vector index out of range: %d (length %d)", e.Index, e.Length)
}

func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }

// InvalidOffsetError wraps the table's reason for rejecting a vector offset.
type InvalidOffsetError struct {
	Offset flatbuffers.UOffsetT
	Cause  error
}

func (e *InvalidOffsetError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid vector offset %d", e.Offset)
	}
	return fmt.Sprintf("invalid vector offset %d: %v", e.Offset, e.Cause)
}

func (e *InvalidOffsetError) Is(target error) bool { return target == ErrInvalidOffset }

func (e *InvalidOffsetError) Unwrap() error { return e.Cause }

// BoundsError is returned by BufferTable when [Offset, Offset+Size) is not
// inside the buffer.
type BoundsError struct {
	Offset uint64
	Size   uint64
	Len    int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("read of %d bytes at %d outside buffer of %d bytes", e.Size, e.Offset, e.Len)
}

func (e *BoundsError) Is(target error) bool { return target == ErrOutOfBounds }
