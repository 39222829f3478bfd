package flatvec

import (
	"iter"
	"math"
	"reflect"
	"strconv"

	flatbuffers "github.com/google/flatbuffers/go"
	"go.uber.org/zap"
)

// Element describes how one element kind is laid out and decoded. Stride is
// the byte distance between consecutive elements; Decode turns the absolute
// position of one element into a value.
type Element[T any] struct {
	Stride flatbuffers.UOffsetT
	Decode func(t Table, off flatbuffers.UOffsetT) (T, error)
}

// Vector is a lazy, zero-copy view of one vector field. Only the length is
// read up front; every Get re-derives the element from the buffer.
//
// A Vector never mutates its table and may be shared between goroutines.
type Vector[T any] struct {
	table  Table
	offset flatbuffers.UOffsetT
	length int
	elem   Element[T]
}

// NewVector reads the length of the vector at field offset off and returns
// an accessor decoding its elements with elem.
func NewVector[T any](t Table, off flatbuffers.UOffsetT, elem Element[T]) (*Vector[T], error) {
	if elem.Stride == 0 || elem.Decode == nil {
		return nil, ErrInvalidElement
	}
	n, err := t.VectorLen(off)
	if err != nil {
		Logger().Debug("vector construction failed", zap.Uint32("offset", uint32(off)), zap.Error(err))
		return nil, &InvalidOffsetError{Offset: off, Cause: err}
	}
	return &Vector[T]{table: t, offset: off, length: n, elem: elem}, nil
}

// Len returns the element count.
func (v *Vector[T]) Len() int { return v.length }

// Stride returns the byte distance between elements.
func (v *Vector[T]) Stride() flatbuffers.UOffsetT { return v.elem.Stride }

// Get decodes element i.
func (v *Vector[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= v.length {
		return zero, &IndexOutOfRangeError{Index: i, Length: v.length}
	}
	base, err := v.table.Vector(v.offset)
	if err != nil {
		return zero, err
	}
	addr := uint64(base) + uint64(i)*uint64(v.elem.Stride)
	if addr > math.MaxUint32 {
		return zero, &BoundsError{Offset: addr, Size: uint64(v.elem.Stride), Len: len(v.table.Bytes())}
	}
	return v.elem.Decode(v.table, flatbuffers.UOffsetT(addr))
}

// At is Get for dynamically typed indices. Any Go integer is accepted;
// other values fail with an *IndexTypeError. Integers that do not fit in an
// int are clamped to MaxInt or MinInt first, so they fail as out of range and
// the reported IndexOutOfRangeError.Index is the clamped value.
func (v *Vector[T]) At(index any) (T, error) {
	i, err := toIndex(index)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.Get(i)
}

// Iterate returns a fresh iterator positioned at element 0.
func (v *Vector[T]) Iterate() *Iterator[T] {
	return &Iterator[T]{src: v, length: v.length}
}

// Values yields every element in order. A decode error is yielded once with
// the zero value and ends the sequence.
func (v *Vector[T]) Values() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := v.Iterate()
		for {
			val, ok, err := it.Next()
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(val, nil) {
				return
			}
		}
	}
}

// All yields index/element pairs and stops silently at the first decode
// error; use Values or Get when errors matter.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.length; i++ {
			val, err := v.Get(i)
			if err != nil || !yield(i, val) {
				return
			}
		}
	}
}

// AppendTo decodes every element onto dst. On a decode error it returns dst
// extended with the elements decoded before the failing one, along with the
// error.
func (v *Vector[T]) AppendTo(dst []T) ([]T, error) {
	dst = growCap(dst, v.length)
	for i := 0; i < v.length; i++ {
		val, err := v.Get(i)
		if err != nil {
			return dst, err
		}
		dst = append(dst, val)
	}
	return dst, nil
}

func growCap[T any](s []T, n int) []T {
	if cap(s)-len(s) >= n {
		return s
	}
	out := make([]T, len(s), len(s)+n)
	copy(out, s)
	return out
}

// ParseIndex parses a decimal element index. Text that is not an integer,
// such as "1.5", fails with an *IndexTypeError.
func ParseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, &IndexTypeError{Value: s}
	}
	return i, nil
}

func toIndex(index any) (int, error) {
	rv := reflect.ValueOf(index)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n > math.MaxInt {
			return math.MaxInt, nil
		}
		if n < math.MinInt {
			return math.MinInt, nil
		}
		return int(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		if n > math.MaxInt {
			// past any vector length; Get reports it
			return math.MaxInt, nil
		}
		return int(n), nil
	default:
		return 0, &IndexTypeError{Value: index}
	}
}
