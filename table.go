package flatvec

import (
	"math"
	"sync/atomic"
	"unsafe"

	flatbuffers "github.com/google/flatbuffers/go"
	"go.uber.org/zap"
)

// Table is the buffer-table an accessor reads through. Offsets passed to
// VectorLen and Vector are field offsets relative to the table position, as
// returned by a vtable lookup. Offsets passed to Indirect, String and Window
// are absolute buffer positions.
type Table interface {
	// VectorLen returns the element count of the vector referenced at off.
	VectorLen(off flatbuffers.UOffsetT) (int, error)
	// Vector returns the absolute position of element 0.
	Vector(off flatbuffers.UOffsetT) (flatbuffers.UOffsetT, error)
	// Indirect follows the relative offset stored at off.
	Indirect(off flatbuffers.UOffsetT) (flatbuffers.UOffsetT, error)
	// String follows the indirection slot at off and decodes the
	// length-prefixed string record it points to.
	String(off flatbuffers.UOffsetT) (string, error)
	// Window returns the n bytes starting at off.
	Window(off flatbuffers.UOffsetT, n int) ([]byte, error)
	// Bytes is the backing buffer, for struct views that alias it.
	Bytes() []byte
}

// BufferTable is a bounds-checked Table over a flatbuffers.Table. Reads that
// would leave the buffer return a *BoundsError rather than panicking.
type BufferTable struct {
	tab   flatbuffers.Table
	opts  Options
	state *bufferState
}

// bufferState is shared by every table over the same buffer.
type bufferState struct {
	released  atomic.Bool
	onRelease func([]byte)
}

var _ Table = (*BufferTable)(nil)

// NewTable returns a table rooted at pos inside buf.
func NewTable(buf []byte, pos flatbuffers.UOffsetT, opts ...Option) *BufferTable {
	o := buildOptions(opts)
	return &BufferTable{
		tab:   flatbuffers.Table{Bytes: buf, Pos: pos},
		opts:  o,
		state: &bufferState{onRelease: o.OnRelease},
	}
}

// GetRootTable returns the root table of a finished buffer.
func GetRootTable(buf []byte, opts ...Option) (*BufferTable, error) {
	if len(buf) < flatbuffers.SizeUOffsetT {
		return nil, &BoundsError{Offset: 0, Size: flatbuffers.SizeUOffsetT, Len: len(buf)}
	}
	t := NewTable(buf, 0, opts...)
	pos, err := t.Indirect(0)
	if err != nil {
		return nil, err
	}
	t.tab.Pos = pos
	return t, nil
}

// FieldSlot converts a schema field id into its vtable slot.
func FieldSlot(id int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT(4 + 2*id)
}

// Pos is the table position inside the buffer.
func (t *BufferTable) Pos() flatbuffers.UOffsetT { return t.tab.Pos }

// Bytes returns the backing buffer, or nil once released.
func (t *BufferTable) Bytes() []byte {
	if t.state.released.Load() {
		return nil
	}
	return t.tab.Bytes
}

// Sub returns the table at absolute position pos. It shares the buffer,
// the options and the release state of t.
func (t *BufferTable) Sub(pos flatbuffers.UOffsetT) (*BufferTable, error) {
	if err := t.check(uint64(pos), flatbuffers.SizeSOffsetT); err != nil {
		return nil, err
	}
	return &BufferTable{tab: flatbuffers.Table{Bytes: t.tab.Bytes, Pos: pos}, opts: t.opts, state: t.state}, nil
}

// Release marks the buffer unusable and passes the bytes to the release
// hook. Reads through this table, or any table sharing its buffer, return
// ErrReleased afterwards. Only the first call has an effect.
func (t *BufferTable) Release() {
	if !t.state.released.CompareAndSwap(false, true) {
		return
	}
	Logger().Debug("table released", zap.Int("size", len(t.tab.Bytes)))
	if t.state.onRelease != nil {
		t.state.onRelease(t.tab.Bytes)
	}
}

// Released reports whether the buffer was released.
func (t *BufferTable) Released() bool { return t.state.released.Load() }

func (t *BufferTable) check(off, n uint64) error {
	if t.state.released.Load() {
		return ErrReleased
	}
	if off+n > uint64(len(t.tab.Bytes)) {
		return &BoundsError{Offset: off, Size: n, Len: len(t.tab.Bytes)}
	}
	return nil
}

// Offset looks slot up in the vtable and returns the field offset relative
// to the table position, or 0 when the field is absent.
func (t *BufferTable) Offset(slot flatbuffers.VOffsetT) (flatbuffers.UOffsetT, error) {
	pos := uint64(t.tab.Pos)
	if err := t.check(pos, flatbuffers.SizeSOffsetT); err != nil {
		return 0, err
	}
	vt := int64(pos) - int64(flatbuffers.GetSOffsetT(t.tab.Bytes[pos:]))
	if vt < 0 {
		return 0, &BoundsError{Offset: 0, Size: flatbuffers.SizeVOffsetT, Len: len(t.tab.Bytes)}
	}
	if err := t.check(uint64(vt), 2*flatbuffers.SizeVOffsetT); err != nil {
		return 0, err
	}
	if slot >= flatbuffers.GetVOffsetT(t.tab.Bytes[vt:]) {
		return 0, nil
	}
	at := uint64(vt) + uint64(slot)
	if err := t.check(at, flatbuffers.SizeVOffsetT); err != nil {
		return 0, err
	}
	return flatbuffers.UOffsetT(flatbuffers.GetVOffsetT(t.tab.Bytes[at:])), nil
}

// Field is Offset for a schema field id.
func (t *BufferTable) Field(id int) (flatbuffers.UOffsetT, error) {
	return t.Offset(FieldSlot(id))
}

// Indirect follows the relative offset stored at the absolute position off.
func (t *BufferTable) Indirect(off flatbuffers.UOffsetT) (flatbuffers.UOffsetT, error) {
	if err := t.check(uint64(off), flatbuffers.SizeUOffsetT); err != nil {
		return 0, err
	}
	target := uint64(off) + uint64(flatbuffers.GetUOffsetT(t.tab.Bytes[off:]))
	if target > math.MaxUint32 || target >= uint64(len(t.tab.Bytes)) {
		return 0, &BoundsError{Offset: target, Size: 1, Len: len(t.tab.Bytes)}
	}
	return flatbuffers.UOffsetT(target), nil
}

// vector resolves the length prefix position of the vector at field
// offset off.
func (t *BufferTable) vector(off flatbuffers.UOffsetT) (flatbuffers.UOffsetT, error) {
	if off == 0 {
		return 0, ErrFieldNotPresent
	}
	abs := uint64(t.tab.Pos) + uint64(off)
	if abs > math.MaxUint32 {
		return 0, &BoundsError{Offset: abs, Size: flatbuffers.SizeUOffsetT, Len: len(t.tab.Bytes)}
	}
	vec, err := t.Indirect(flatbuffers.UOffsetT(abs))
	if err != nil {
		return 0, err
	}
	if err := t.check(uint64(vec), flatbuffers.SizeUOffsetT); err != nil {
		return 0, err
	}
	return vec, nil
}

func (t *BufferTable) VectorLen(off flatbuffers.UOffsetT) (int, error) {
	vec, err := t.vector(off)
	if err != nil {
		return 0, err
	}
	return int(flatbuffers.GetUOffsetT(t.tab.Bytes[vec:])), nil
}

func (t *BufferTable) Vector(off flatbuffers.UOffsetT) (flatbuffers.UOffsetT, error) {
	vec, err := t.vector(off)
	if err != nil {
		return 0, err
	}
	return vec + flatbuffers.SizeUOffsetT, nil
}

func (t *BufferTable) String(off flatbuffers.UOffsetT) (string, error) {
	b, err := t.ByteVector(off)
	if err != nil {
		return "", err
	}
	if t.opts.UnsafeStrings {
		if len(b) == 0 {
			return "", nil
		}
		return unsafe.String(&b[0], len(b)), nil
	}
	return string(b), nil
}

// ByteVector follows the slot at off and returns the length-prefixed bytes
// it points to, aliasing the buffer.
func (t *BufferTable) ByteVector(off flatbuffers.UOffsetT) ([]byte, error) {
	rec, err := t.Indirect(off)
	if err != nil {
		return nil, err
	}
	if err := t.check(uint64(rec), flatbuffers.SizeUOffsetT); err != nil {
		return nil, err
	}
	n := uint64(flatbuffers.GetUOffsetT(t.tab.Bytes[rec:]))
	start := uint64(rec) + flatbuffers.SizeUOffsetT
	if err := t.check(start, n); err != nil {
		return nil, err
	}
	return t.tab.Bytes[start : start+n], nil
}

func (t *BufferTable) Window(off flatbuffers.UOffsetT, n int) ([]byte, error) {
	if n < 0 {
		return nil, &BoundsError{Offset: uint64(off), Size: 0, Len: len(t.tab.Bytes)}
	}
	if err := t.check(uint64(off), uint64(n)); err != nil {
		return nil, err
	}
	return t.tab.Bytes[uint64(off) : uint64(off)+uint64(n)], nil
}
