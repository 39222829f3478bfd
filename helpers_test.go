package flatvec

import (
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/require"
)

// Root table fields used by the fixtures.
const (
	fieldScores   = 0 // [uint32]
	fieldNames    = 1 // [string]
	fieldPoints   = 2 // [point]
	fieldEmpty    = 3 // [uint32], always empty
	fieldChildren = 4 // [child]
	fieldColors   = 5 // [color]
	fieldFlags    = 6 // [bool]
	fieldCount    = 7
)

type color int8

const (
	colorRed color = iota
	colorGreen
	colorBlue
)

// point mirrors generated code for `struct Point { x:int; y:int; }`.
type point struct {
	_tab flatbuffers.Struct
}

func (p *point) Init(buf []byte, i flatbuffers.UOffsetT) {
	p._tab.Bytes = buf
	p._tab.Pos = i
}

func (p *point) X() int32 { return p._tab.GetInt32(p._tab.Pos) }
func (p *point) Y() int32 { return p._tab.GetInt32(p._tab.Pos + 4) }

const pointSize = 8

// child mirrors generated code for `table Child { name:string; hp:short = 100; }`.
type child struct {
	_tab flatbuffers.Table
}

func (c *child) Init(buf []byte, i flatbuffers.UOffsetT) {
	c._tab.Bytes = buf
	c._tab.Pos = i
}

func (c *child) Name() string {
	if o := flatbuffers.UOffsetT(c._tab.Offset(4)); o != 0 {
		return c._tab.String(o + c._tab.Pos)
	}
	return ""
}

func (c *child) Hp() int16 {
	if o := flatbuffers.UOffsetT(c._tab.Offset(6)); o != 0 {
		return c._tab.GetInt16(o + c._tab.Pos)
	}
	return 100
}

type childRow struct {
	name string
	hp   int16
}

type fixture struct {
	scores   []uint32
	names    []string
	points   [][2]int32
	children []childRow
	colors   []color
	flags    []bool
}

func defaultFixture() fixture {
	return fixture{
		scores:   []uint32{10, 20, 30},
		names:    []string{"ab", "xyz"},
		points:   [][2]int32{{1, 2}, {3, 4}},
		children: []childRow{{"orc", 300}, {"elf", 100}},
		colors:   []color{colorBlue, colorRed, colorGreen},
		flags:    []bool{true, false, true},
	}
}

func (f fixture) build() []byte {
	b := flatbuffers.NewBuilder(256)

	b.StartVector(flatbuffers.SizeUint32, len(f.scores), flatbuffers.SizeUint32)
	for i := len(f.scores) - 1; i >= 0; i-- {
		b.PrependUint32(f.scores[i])
	}
	scores := b.EndVector(len(f.scores))

	nameOffs := make([]flatbuffers.UOffsetT, len(f.names))
	for i, s := range f.names {
		nameOffs[i] = b.CreateString(s)
	}
	b.StartVector(flatbuffers.SizeUOffsetT, len(nameOffs), flatbuffers.SizeUOffsetT)
	for i := len(nameOffs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(nameOffs[i])
	}
	names := b.EndVector(len(nameOffs))

	b.StartVector(pointSize, len(f.points), 4)
	for i := len(f.points) - 1; i >= 0; i-- {
		b.Prep(4, pointSize)
		b.PrependInt32(f.points[i][1])
		b.PrependInt32(f.points[i][0])
	}
	points := b.EndVector(len(f.points))

	b.StartVector(flatbuffers.SizeUint32, 0, flatbuffers.SizeUint32)
	empty := b.EndVector(0)

	childOffs := make([]flatbuffers.UOffsetT, len(f.children))
	for i, c := range f.children {
		name := b.CreateString(c.name)
		b.StartObject(2)
		b.PrependUOffsetTSlot(0, name, 0)
		b.PrependInt16Slot(1, c.hp, 100)
		childOffs[i] = b.EndObject()
	}
	b.StartVector(flatbuffers.SizeUOffsetT, len(childOffs), flatbuffers.SizeUOffsetT)
	for i := len(childOffs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(childOffs[i])
	}
	children := b.EndVector(len(childOffs))

	b.StartVector(flatbuffers.SizeInt8, len(f.colors), flatbuffers.SizeInt8)
	for i := len(f.colors) - 1; i >= 0; i-- {
		b.PrependInt8(int8(f.colors[i]))
	}
	colors := b.EndVector(len(f.colors))

	b.StartVector(flatbuffers.SizeBool, len(f.flags), flatbuffers.SizeBool)
	for i := len(f.flags) - 1; i >= 0; i-- {
		b.PrependBool(f.flags[i])
	}
	flags := b.EndVector(len(f.flags))

	b.StartObject(fieldCount)
	b.PrependUOffsetTSlot(fieldScores, scores, 0)
	b.PrependUOffsetTSlot(fieldNames, names, 0)
	b.PrependUOffsetTSlot(fieldPoints, points, 0)
	b.PrependUOffsetTSlot(fieldEmpty, empty, 0)
	b.PrependUOffsetTSlot(fieldChildren, children, 0)
	b.PrependUOffsetTSlot(fieldColors, colors, 0)
	b.PrependUOffsetTSlot(fieldFlags, flags, 0)
	b.Finish(b.EndObject())
	return b.FinishedBytes()
}

// openField returns the root table of buf and the offset of field id.
func openField(t testing.TB, buf []byte, id int, opts ...Option) (*BufferTable, flatbuffers.UOffsetT) {
	t.Helper()
	tab, err := GetRootTable(buf, opts...)
	require.NoError(t, err)
	off, err := tab.Field(id)
	require.NoError(t, err)
	require.NotZero(t, off, "field %d absent", id)
	return tab, off
}
