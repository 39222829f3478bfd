// Package flatvec provides lazy, zero-copy accessors over vector fields of
// FlatBuffers tables.
//
// A Vector reads only the element count when it is built. Elements are
// decoded on demand from the underlying buffer, either by index with Get and
// At or in order with an Iterator. The element kind is described by an
// Element: fixed-width scalars and enums (Scalars), strings (Strings),
// inline structs (Structs) and nested tables (Tables).
//
// Reads go through a Table. BufferTable is the bounds-checked implementation
// over a byte slice and reports malformed input as errors instead of
// panicking:
//
//	tab, err := flatvec.GetRootTable(buf)
//	if err != nil {
//		return err
//	}
//	off, err := tab.Field(0)
//	if err != nil {
//		return err
//	}
//	scores, err := flatvec.Scalars(tab, off, flatvec.Uint32)
//	if err != nil {
//		return err
//	}
//	for s, err := range scores.Values() {
//		...
//	}
//
// Struct views and strings built with WithUnsafeStrings alias the buffer.
// They are valid only while the buffer is unchanged; BufferTable.Release
// turns later reads into ErrReleased.
package flatvec
