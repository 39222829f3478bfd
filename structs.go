package flatvec

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// View is implemented by pointers to generated struct and table types: Init
// points the value at position i of buf without copying.
type View[S any] interface {
	*S
	Init(buf []byte, i flatbuffers.UOffsetT)
}

// StructElement decodes inline structs of the given encoded size. Each
// element is returned by value but aliases the table's bytes, so it is only
// meaningful while the buffer is.
func StructElement[S any, P View[S]](size int) Element[S] {
	if size <= 0 {
		return Element[S]{}
	}
	return Element[S]{
		Stride: flatbuffers.UOffsetT(size),
		Decode: func(t Table, off flatbuffers.UOffsetT) (S, error) {
			var s S
			buf, err := viewBytes(t, off, size)
			if err != nil {
				return s, err
			}
			P(&s).Init(buf, off)
			return s, nil
		},
	}
}

// Structs returns an accessor over a vector of fixed-size structs. size is
// the struct's encoded size from the schema.
func Structs[S any, P View[S]](t Table, off flatbuffers.UOffsetT, size int) (*Vector[S], error) {
	return NewVector(t, off, StructElement[S, P](size))
}

// TableElement decodes offsets to nested tables. Like strings, each slot
// holds a relative pointer that is followed before the view is built.
func TableElement[S any, P View[S]]() Element[S] {
	return Element[S]{
		Stride: flatbuffers.SizeUOffsetT,
		Decode: func(t Table, off flatbuffers.UOffsetT) (S, error) {
			var s S
			pos, err := t.Indirect(off)
			if err != nil {
				return s, err
			}
			buf, err := viewBytes(t, pos, flatbuffers.SizeSOffsetT)
			if err != nil {
				return s, err
			}
			P(&s).Init(buf, pos)
			return s, nil
		},
	}
}

// viewBytes returns the buffer a view of n bytes at off will alias. The
// buffer is taken before the window check, so a release in between shows up
// as ErrReleased instead of a view over nil.
func viewBytes(t Table, off flatbuffers.UOffsetT, n int) ([]byte, error) {
	buf := t.Bytes()
	if buf == nil {
		return nil, ErrReleased
	}
	if _, err := t.Window(off, n); err != nil {
		return nil, err
	}
	if uint64(off)+uint64(n) > uint64(len(buf)) {
		return nil, &BoundsError{Offset: uint64(off), Size: uint64(n), Len: len(buf)}
	}
	return buf, nil
}

// Tables returns an accessor over a vector of nested tables.
func Tables[S any, P View[S]](t Table, off flatbuffers.UOffsetT) (*Vector[S], error) {
	return NewVector(t, off, TableElement[S, P]())
}

// StringElement decodes vectors of strings. The stride is the width of one
// indirection slot, not of the string payload.
var StringElement = Element[string]{
	Stride: flatbuffers.SizeUOffsetT,
	Decode: func(t Table, off flatbuffers.UOffsetT) (string, error) {
		return t.String(off)
	},
}

// Strings returns an accessor over a vector of strings.
func Strings(t Table, off flatbuffers.UOffsetT) (*Vector[string], error) {
	return NewVector(t, off, StringElement)
}
