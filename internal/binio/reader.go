// Package binio provides the read, seek and write primitives used on bundle
// streams. Every failure, including a short transfer, is reported as an
// error wrapping bundletype.ErrIO.
package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/bundle/internal/bundletype"
)

// ErrShortRead is wrapped by read errors caused by the stream ending early.
var ErrShortRead = errors.New("short read")

// Reader reads little-endian fixed-width values from a seekable stream.
type Reader struct {
	r   io.ReadSeeker
	buf [8]byte
}

// NewReader wraps r.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r}
}

// Seek moves the stream to offset bytes from its start.
func (r *Reader) Seek(offset int64) error {
	if _, err := r.r.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek to %d: %w", bundletype.ErrIO, offset, err)
	}
	return nil
}

// ReadFull fills p from the stream.
func (r *Reader) ReadFull(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w (%d of %d bytes)", bundletype.ErrIO, ErrShortRead, n, len(p))
	}
	return fmt.Errorf("%w: read: %w", bundletype.ErrIO, err)
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.ReadFull(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.ReadFull(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err //nolint:gosec // two's complement reinterpretation is the wire format
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.ReadFull(r.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.buf[:8]), nil
}

// ReadInt64 reads a little-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err //nolint:gosec // two's complement reinterpretation is the wire format
}

// Size returns the total length of the stream. The stream position is
// restored to the start.
func (r *Reader) Size() (int64, error) {
	size, err := r.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: seek to end: %w", bundletype.ErrIO, err)
	}
	if err := r.Seek(0); err != nil {
		return 0, err
	}
	return size, nil
}

// Write writes all of p to w.
func Write(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return fmt.Errorf("%w: write: %w", bundletype.ErrIO, err)
	}
	if n != len(p) {
		return fmt.Errorf("%w: %w (%d of %d bytes)", bundletype.ErrIO, io.ErrShortWrite, n, len(p))
	}
	return nil
}
