package decode

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"
)

// WALHeaderSize is the size of the miptex header: name[32], width, height,
// offsets[4], animname[32], flags, contents, value.
const WALHeaderSize = 100

// MipSize is the byte count of a paletted texture of c pixels plus its
// three mip levels.
func MipSize(c uint64) uint64 { return c * (256 + 64 + 16 + 4) / 256 }

// WALDimensions reads width and height from a miptex header.
func WALDimensions(hdr []byte) (w, h int, ok bool) {
	if len(hdr) < WALHeaderSize {
		return 0, 0, false
	}
	w, err1 := safecast.Conv[int](binary.LittleEndian.Uint32(hdr[32:]))
	h, err2 := safecast.Conv[int](binary.LittleEndian.Uint32(hdr[36:]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return w, h, true
}

// DecodeWAL returns an indexed buffer for a Quake II wall texture.
//
// The pixels are not copied: the returned buffer is borrowed and aliases
// raw. The caller must keep raw alive, and release it exactly once, for as
// long as the buffer is in use.
func DecodeWAL(raw []byte) (*Buffer, error) {
	if len(raw) < WALHeaderSize {
		return nil, fmt.Errorf("wal: %w", ErrFileTooSmall)
	}

	w := uint64(binary.LittleEndian.Uint32(raw[32:]))
	h := uint64(binary.LittleEndian.Uint32(raw[36:]))
	offset := uint64(binary.LittleEndian.Uint32(raw[40:]))

	if w < 1 || h < 1 || w > 512 || h > 512 || w*h > MaxPalettedPixels {
		return nil, fmt.Errorf("wal: %dx%d: %w", w, h, ErrInvalidFormat)
	}

	size := MipSize(w * h)
	end := offset + size
	if end < offset || end > uint64(len(raw)) {
		return nil, fmt.Errorf("wal: data at %d+%d past %d bytes: %w", offset, size, len(raw), ErrBadExtent)
	}

	start, err := safecast.Conv[int](offset)
	if err != nil {
		return nil, fmt.Errorf("wal: %w", ErrBadExtent)
	}
	stop, err := safecast.Conv[int](end)
	if err != nil {
		return nil, fmt.Errorf("wal: %w", ErrBadExtent)
	}

	return &Buffer{
		Pix:     raw[start:stop:stop],
		Width:   int(w),
		Height:  int(h),
		Indexed: true,
		source:  raw,
	}, nil
}
