package layout

import (
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/flatvec"
)

// sample builds a root table with
// 0: [uint32] {7, 8}; 1: [string] {"hi", "a\"b"}; 2: [struct(4)] {0x01020304};
// 3: [table] one empty table; 4: [float64] {1.5}; 5: [bool] {true, false}.
func sample(t *testing.T) *flatvec.BufferTable {
	t.Helper()
	b := flatbuffers.NewBuilder(128)

	b.StartVector(4, 2, 4)
	b.PrependUint32(8)
	b.PrependUint32(7)
	nums := b.EndVector(2)

	s1, s2 := b.CreateString("hi"), b.CreateString(`a"b`)
	b.StartVector(4, 2, 4)
	b.PrependUOffsetT(s2)
	b.PrependUOffsetT(s1)
	strs := b.EndVector(2)

	b.StartVector(4, 1, 4)
	b.PrependUint32(0x04030201)
	structs := b.EndVector(1)

	b.StartObject(0)
	inner := b.EndObject()
	b.StartVector(4, 1, 4)
	b.PrependUOffsetT(inner)
	tables := b.EndVector(1)

	b.StartVector(8, 1, 8)
	b.PrependFloat64(1.5)
	floats := b.EndVector(1)

	b.StartVector(1, 2, 1)
	b.PrependBool(false)
	b.PrependBool(true)
	bools := b.EndVector(2)

	b.StartObject(6)
	b.PrependUOffsetTSlot(0, nums, 0)
	b.PrependUOffsetTSlot(1, strs, 0)
	b.PrependUOffsetTSlot(2, structs, 0)
	b.PrependUOffsetTSlot(3, tables, 0)
	b.PrependUOffsetTSlot(4, floats, 0)
	b.PrependUOffsetTSlot(5, bools, 0)
	b.Finish(b.EndObject())

	tab, err := flatvec.GetRootTable(b.FinishedBytes())
	require.NoError(t, err)
	return tab
}

func formatAll(t *testing.T, c Column) []string {
	t.Helper()
	out := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		s, err := c.Format(i)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestOpenKinds(t *testing.T) {
	tab := sample(t)
	tests := []struct {
		field Field
		want  []string
	}{
		{Field{Name: "nums", ID: 0, Kind: "uint32"}, []string{"7", "8"}},
		{Field{Name: "nums", ID: 0, Kind: "uint"}, []string{"7", "8"}},
		// the prefix counts elements, so a narrower kind sees the first half
		{Field{Name: "halves", ID: 0, Kind: "uint16"}, []string{"7", "0"}},
		{Field{Name: "strs", ID: 1, Kind: KindString}, []string{`"hi"`, `"a\"b"`}},
		{Field{Name: "points", ID: 2, Kind: KindStruct, Size: 4}, []string{"01020304"}},
		{Field{Name: "floats", ID: 4, Kind: "double"}, []string{"1.5"}},
		{Field{Name: "bools", ID: 5, Kind: "bool"}, []string{"true", "false"}},
	}
	for _, tt := range tests {
		t.Run(tt.field.Name+"/"+tt.field.Kind, func(t *testing.T) {
			c, err := Open(tab, tt.field)
			require.NoError(t, err)
			require.Equal(t, tt.want, formatAll(t, c))
		})
	}
}

func TestOpenTable(t *testing.T) {
	tab := sample(t)
	c, err := Open(tab, Field{Name: "kids", ID: 3, Kind: KindTable})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	s, err := c.Format(0)
	require.NoError(t, err)
	assert.Regexp(t, `^table@\d+$`, s)
}

func TestOpenErrors(t *testing.T) {
	tab := sample(t)

	_, err := Open(tab, Field{Name: "x", ID: 0, Kind: "complex"})
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = Open(tab, Field{Name: "x", ID: 2, Kind: KindStruct})
	require.ErrorIs(t, err, ErrInvalidField)

	_, err = Open(tab, Field{Name: "missing", ID: 9, Kind: "uint8"})
	require.ErrorIs(t, err, flatvec.ErrFieldNotPresent)

	c, err := Open(tab, Field{Name: "nums", ID: 0, Kind: "uint32"})
	require.NoError(t, err)
	_, err = c.Format(2)
	require.ErrorIs(t, err, flatvec.ErrIndexOutOfRange)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Field{Name: "a", Kind: "float"}.Validate())
	require.NoError(t, Field{Name: "a", Kind: KindStruct, Size: 12}.Validate())
	require.ErrorIs(t, Field{Name: "a", Kind: "int32", Size: 4}.Validate(), ErrInvalidField)
	require.ErrorIs(t, Field{Name: "a", ID: -1, Kind: "int32"}.Validate(), ErrInvalidField)
	require.ErrorIs(t, Field{Name: "a"}.Validate(), ErrUnknownKind)
}

func TestStride(t *testing.T) {
	for kind, want := range map[string]int{
		"bool": 1, "int16": 2, "float": 4, "ulong": 8,
		KindString: 4, KindTable: 4,
	} {
		got, err := Field{Kind: kind}.Stride()
		require.NoError(t, err, kind)
		assert.Equal(t, want, got, kind)
	}
	got, err := Field{Kind: KindStruct, Size: 12}.Stride()
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	assert.Equal(t, -1, FixedSize(KindString))
	assert.False(t, IsFixedKind(KindTable))
}
