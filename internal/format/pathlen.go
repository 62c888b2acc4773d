package format

import (
	"bytes"
	"fmt"

	"github.com/meigma/bundle/internal/binio"
)

// ReadPathLength decodes a length prefix whose first byte has already been
// read. Lengths up to 127 occupy one byte; longer lengths set the high bit of
// the first byte and carry the upper seven bits in a second byte.
func ReadPathLength(first byte, r *binio.Reader) (int, error) {
	length := int(first)
	if first&0x80 != 0 {
		second, err := r.ReadByte()
		if err != nil {
			return 0, corrupt(err)
		}
		if second&0x80 != 0 {
			return 0, fmt.Errorf("%w: length encoding exceeds two bytes", ErrFormatCorruption)
		}
		length = int(second)<<7 | int(first&0x7f)
	}
	if length <= 0 || length > MaxPathLength {
		return 0, fmt.Errorf("%w: path length %d is zero or too long", ErrFormatCorruption, length)
	}
	return length, nil
}

// readString reads a length-prefixed string.
func readString(r *binio.Reader) (string, error) {
	first, err := r.ReadByte()
	if err != nil {
		return "", corrupt(err)
	}
	n, err := ReadPathLength(first, r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return "", corrupt(err)
	}
	if bytes.IndexByte(buf, 0) >= 0 {
		return "", fmt.Errorf("%w: string contains a NUL byte", ErrFormatCorruption)
	}
	return string(buf), nil
}
