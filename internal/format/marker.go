package format

import (
	"bytes"
	"fmt"

	"github.com/meigma/bundle/internal/binio"
)

// MarkerSize is the length of the trailing marker: an int64 header offset
// followed by Signature.
const MarkerSize = 8 + len(Signature)

// Signature identifies an image that carries a bundle.
var Signature = [16]byte{0x0f, 's', 'i', 'n', 'g', 'l', 'e', 'f', 'i', 'l', 'e', '-', 'b', 'n', 'd', 'l'}

// ReadMarker reads the trailing marker of an image of the given size and
// returns the header offset it records.
func ReadMarker(r *binio.Reader, size int64) (int64, error) {
	if size < int64(MarkerSize) {
		return 0, fmt.Errorf("%w: image too small for a bundle marker (%d bytes)", ErrFormatCorruption, size)
	}
	markerStart := size - int64(MarkerSize)
	if err := r.Seek(markerStart); err != nil {
		return 0, err
	}
	offset, err := r.ReadInt64()
	if err != nil {
		return 0, corrupt(err)
	}
	var sig [len(Signature)]byte
	if err := r.ReadFull(sig[:]); err != nil {
		return 0, corrupt(err)
	}
	if !bytes.Equal(sig[:], Signature[:]) {
		return 0, fmt.Errorf("%w: bundle signature not found", ErrFormatCorruption)
	}
	if offset < 0 || offset >= markerStart {
		return 0, fmt.Errorf("%w: header offset %d outside image", ErrFormatCorruption, offset)
	}
	return offset, nil
}
