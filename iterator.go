package flatvec

// Iterator walks a Vector front to back. It cannot be rewound; call
// Vector.Iterate again for another pass. Iterators over the same vector are
// independent, but a single Iterator must not be shared between goroutines.
type Iterator[T any] struct {
	src    *Vector[T]
	cursor int
	length int
}

// HasNext reports whether Next will yield another element.
func (it *Iterator[T]) HasNext() bool { return it.cursor < it.length }

// Next returns the next element. At the end of the vector it returns
// ok == false and a nil error, and keeps doing so on later calls. A decode
// error leaves the cursor in place.
func (it *Iterator[T]) Next() (val T, ok bool, err error) {
	if it.cursor >= it.length {
		return val, false, nil
	}
	val, err = it.src.Get(it.cursor)
	if err != nil {
		return val, false, err
	}
	it.cursor++
	return val, true, nil
}

// Remaining is the number of elements not yet yielded.
func (it *Iterator[T]) Remaining() int { return it.length - it.cursor }
