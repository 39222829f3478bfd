package flatvec

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Integer is the set of fixed-width integer element types.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ScalarKind describes a fixed-width primitive: its encoded width and how to
// interpret those bytes.
type ScalarKind[T any] struct {
	Name  string
	Width int
	Read  func(buf []byte) T
}

var (
	Bool    = ScalarKind[bool]{Name: "bool", Width: flatbuffers.SizeBool, Read: flatbuffers.GetBool}
	Byte    = ScalarKind[byte]{Name: "byte", Width: flatbuffers.SizeByte, Read: flatbuffers.GetByte}
	Uint8   = ScalarKind[uint8]{Name: "uint8", Width: flatbuffers.SizeUint8, Read: flatbuffers.GetUint8}
	Int8    = ScalarKind[int8]{Name: "int8", Width: flatbuffers.SizeInt8, Read: flatbuffers.GetInt8}
	Uint16  = ScalarKind[uint16]{Name: "uint16", Width: flatbuffers.SizeUint16, Read: flatbuffers.GetUint16}
	Int16   = ScalarKind[int16]{Name: "int16", Width: flatbuffers.SizeInt16, Read: flatbuffers.GetInt16}
	Uint32  = ScalarKind[uint32]{Name: "uint32", Width: flatbuffers.SizeUint32, Read: flatbuffers.GetUint32}
	Int32   = ScalarKind[int32]{Name: "int32", Width: flatbuffers.SizeInt32, Read: flatbuffers.GetInt32}
	Uint64  = ScalarKind[uint64]{Name: "uint64", Width: flatbuffers.SizeUint64, Read: flatbuffers.GetUint64}
	Int64   = ScalarKind[int64]{Name: "int64", Width: flatbuffers.SizeInt64, Read: flatbuffers.GetInt64}
	Float32 = ScalarKind[float32]{Name: "float32", Width: flatbuffers.SizeFloat32, Read: flatbuffers.GetFloat32}
	Float64 = ScalarKind[float64]{Name: "float64", Width: flatbuffers.SizeFloat64, Read: flatbuffers.GetFloat64}
)

// Enum reinterprets an integer kind as the named type E, so vectors of
// generated enum types decode without a per-element conversion at the call
// site.
func Enum[E, B Integer](base ScalarKind[B]) ScalarKind[E] {
	read := base.Read
	return ScalarKind[E]{
		Name:  base.Name,
		Width: base.Width,
		Read:  func(buf []byte) E { return E(read(buf)) },
	}
}

// ScalarElement decodes elements of kind k.
func ScalarElement[T any](k ScalarKind[T]) Element[T] {
	if k.Width <= 0 || k.Read == nil {
		return Element[T]{}
	}
	width, read := k.Width, k.Read
	return Element[T]{
		Stride: flatbuffers.UOffsetT(width),
		Decode: func(t Table, off flatbuffers.UOffsetT) (T, error) {
			b, err := t.Window(off, width)
			if err != nil {
				var zero T
				return zero, err
			}
			return read(b), nil
		},
	}
}

// Scalars returns an accessor over a vector of numbers or booleans.
func Scalars[T any](t Table, off flatbuffers.UOffsetT, k ScalarKind[T]) (*Vector[T], error) {
	return NewVector(t, off, ScalarElement(k))
}
