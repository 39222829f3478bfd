// Package blob loads buffers from files or stdin into pooled memory,
// decompressing zstd frames on the way.
package blob

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// MaxSize caps decompressed buffers.
const MaxSize = 1 << 30

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var ErrTooLarge = errors.New("buffer exceeds maximum size")

var pool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64<<10)
		return &b
	},
}

var (
	decoder     *zstd.Decoder
	decoderErr  error
	decoderOnce sync.Once
)

func zstdDecoder() (*zstd.Decoder, error) {
	decoderOnce.Do(func() {
		decoder, decoderErr = zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(0),
			zstd.WithDecoderMaxMemory(MaxSize))
	})
	return decoder, decoderErr
}

// Blob is a loaded buffer. Its bytes belong to a pool once released.
type Blob struct {
	buf        *[]byte
	compressed bool
	released   atomic.Bool
}

// stdin is swapped by tests.
var stdin io.Reader = os.Stdin

// Load reads path, or standard input when path is Stdin.
func Load(path string) (*Blob, error) {
	if path == Stdin {
		return Read(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open buffer: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read consumes r. Input starting with a zstd frame magic is decompressed.
func Read(r io.Reader) (*Blob, error) {
	raw := pool.Get().(*[]byte)
	b, err := readAll((*raw)[:0], r)
	*raw = b
	if err != nil {
		put(raw)
		return nil, fmt.Errorf("read buffer: %w", err)
	}
	if !bytes.HasPrefix(b, zstdMagic) {
		return &Blob{buf: raw}, nil
	}
	defer put(raw)
	dec, err := zstdDecoder()
	if err != nil {
		return nil, err
	}
	out := pool.Get().(*[]byte)
	plain, err := dec.DecodeAll(b, (*out)[:0])
	if err != nil {
		put(out)
		return nil, fmt.Errorf("zstd: %w", err)
	}
	*out = plain
	return &Blob{buf: out, compressed: true}, nil
}

func readAll(b []byte, r io.Reader) ([]byte, error) {
	for {
		if len(b) == cap(b) {
			if len(b) >= MaxSize {
				return b, ErrTooLarge
			}
			b = append(b, 0)[:len(b)]
		}
		n, err := r.Read(b[len(b):cap(b)])
		b = b[:len(b)+n]
		if err != nil {
			if errors.Is(err, io.EOF) {
				return b, nil
			}
			return b, err
		}
	}
}

func put(b *[]byte) {
	*b = (*b)[:0]
	pool.Put(b)
}

// Bytes returns the contents, or nil after Release.
func (b *Blob) Bytes() []byte {
	if b.released.Load() {
		return nil
	}
	return *b.buf
}

// Compressed reports whether the input was a zstd frame.
func (b *Blob) Compressed() bool { return b.compressed }

// Release hands the memory back to the pool. Later calls are no-ops.
func (b *Blob) Release() {
	if b.released.CompareAndSwap(false, true) {
		put(b.buf)
	}
}
