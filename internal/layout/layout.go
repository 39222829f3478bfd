// Package layout maps the field kinds named in a layout file onto flatvec
// element decoders, so vectors can be read and printed without generated
// code.
package layout

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/rawbytedev/flatvec"
)

const (
	KindString = "string"
	KindStruct = "struct"
	KindTable  = "table"
)

var (
	ErrUnknownKind  = errors.New("unknown field kind")
	ErrInvalidField = errors.New("invalid field")
)

// Field is one vector field of the root table.
type Field struct {
	Name string `yaml:"name"`
	ID   int    `yaml:"id"`
	Kind string `yaml:"kind"`
	// Size is the encoded struct size; only meaningful for KindStruct.
	Size int `yaml:"size,omitempty"`
}

// IsFixedKind reports whether kind names a fixed-width scalar.
func IsFixedKind(kind string) bool {
	return FixedSize(kind) > 0
}

// FixedSize returns the byte width of a scalar kind, or -1.
func FixedSize(kind string) int {
	switch kind {
	case "bool", "byte", "ubyte", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "int32", "uint32", "float", "float32":
		return 4
	case "long", "ulong", "int64", "uint64", "double", "float64":
		return 8
	default:
		return -1
	}
}

// Stride returns the distance between consecutive elements of f.
func (f Field) Stride() (int, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	switch f.Kind {
	case KindString, KindTable:
		return flatbuffers.SizeUOffsetT, nil
	case KindStruct:
		return f.Size, nil
	default:
		return FixedSize(f.Kind), nil
	}
}

// Validate checks that f can be opened.
func (f Field) Validate() error {
	if f.ID < 0 {
		return fmt.Errorf("%w %q: negative id %d", ErrInvalidField, f.Name, f.ID)
	}
	switch {
	case f.Kind == KindStruct:
		if f.Size <= 0 {
			return fmt.Errorf("%w %q: struct needs a positive size", ErrInvalidField, f.Name)
		}
		return nil
	case f.Kind == KindString, f.Kind == KindTable, IsFixedKind(f.Kind):
		if f.Size != 0 {
			return fmt.Errorf("%w %q: size is only allowed for structs", ErrInvalidField, f.Name)
		}
		return nil
	default:
		return fmt.Errorf("%w %q for field %q", ErrUnknownKind, f.Kind, f.Name)
	}
}

// Column is a type-erased vector whose elements print as text.
type Column interface {
	Len() int
	Format(i int) (string, error)
}

type column[T any] struct {
	vec    *flatvec.Vector[T]
	format func(T) string
}

func (c column[T]) Len() int { return c.vec.Len() }

func (c column[T]) Format(i int) (string, error) {
	v, err := c.vec.Get(i)
	if err != nil {
		return "", err
	}
	return c.format(v), nil
}

func newColumn[T any](t flatvec.Table, off flatbuffers.UOffsetT, elem flatvec.Element[T], format func(T) string) (Column, error) {
	v, err := flatvec.NewVector(t, off, elem)
	if err != nil {
		return nil, err
	}
	return column[T]{vec: v, format: format}, nil
}

func scalar[T any](t flatvec.Table, off flatbuffers.UOffsetT, k flatvec.ScalarKind[T]) (Column, error) {
	return newColumn(t, off, flatvec.ScalarElement(k), func(v T) string { return fmt.Sprint(v) })
}

// Open resolves f in the root table tab and returns its column.
func Open(tab *flatvec.BufferTable, f Field) (Column, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	off, err := tab.Field(f.ID)
	if err != nil {
		return nil, err
	}
	return OpenAt(tab, off, f)
}

// OpenAt is Open for an already resolved field offset.
func OpenAt(t flatvec.Table, off flatbuffers.UOffsetT, f Field) (Column, error) {
	switch f.Kind {
	case "bool":
		return scalar(t, off, flatvec.Bool)
	case "byte", "int8":
		return scalar(t, off, flatvec.Int8)
	case "ubyte", "uint8":
		return scalar(t, off, flatvec.Uint8)
	case "short", "int16":
		return scalar(t, off, flatvec.Int16)
	case "ushort", "uint16":
		return scalar(t, off, flatvec.Uint16)
	case "int", "int32":
		return scalar(t, off, flatvec.Int32)
	case "uint", "uint32":
		return scalar(t, off, flatvec.Uint32)
	case "long", "int64":
		return scalar(t, off, flatvec.Int64)
	case "ulong", "uint64":
		return scalar(t, off, flatvec.Uint64)
	case "float", "float32":
		return scalar(t, off, flatvec.Float32)
	case "double", "float64":
		return scalar(t, off, flatvec.Float64)
	case KindString:
		return newColumn(t, off, flatvec.StringElement, strconv.Quote)
	case KindStruct:
		if f.Size <= 0 {
			return nil, fmt.Errorf("%w %q: struct needs a positive size", ErrInvalidField, f.Name)
		}
		size := f.Size
		return newColumn(t, off, flatvec.StructElement[rawStruct](size), func(r rawStruct) string {
			end := int(r.pos) + size
			if end > len(r.buf) {
				return ""
			}
			return hex.EncodeToString(r.buf[r.pos:end])
		})
	case KindTable:
		return newColumn(t, off, flatvec.TableElement[tableRef](), func(r tableRef) string {
			return "table@" + strconv.FormatUint(uint64(r.pos), 10)
		})
	default:
		return nil, fmt.Errorf("%w %q for field %q", ErrUnknownKind, f.Kind, f.Name)
	}
}

// rawStruct is a struct view without a schema.
type rawStruct struct {
	buf []byte
	pos flatbuffers.UOffsetT
}

func (r *rawStruct) Init(buf []byte, i flatbuffers.UOffsetT) {
	r.buf, r.pos = buf, i
}

// tableRef records where a nested table starts.
type tableRef struct {
	pos flatbuffers.UOffsetT
}

func (r *tableRef) Init(_ []byte, i flatbuffers.UOffsetT) { r.pos = i }
