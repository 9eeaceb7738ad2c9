package decode

import (
	"encoding/binary"
	"fmt"
)

// PCXHeaderSize is the size of the fixed ZSoft PCX header.
const PCXHeaderSize = 128

const pcxPaletteSize = 768

// pcxHeader holds the header fields the decoder looks at.
type pcxHeader struct {
	manufacturer byte
	version      byte
	encoding     byte
	bitsPerPixel byte
	xmin, ymin   uint16
	xmax, ymax   uint16
	colorPlanes  byte
	bytesPerLine uint16
}

func readPCXHeader(raw []byte) pcxHeader {
	return pcxHeader{
		manufacturer: raw[0],
		version:      raw[1],
		encoding:     raw[2],
		bitsPerPixel: raw[3],
		xmin:         binary.LittleEndian.Uint16(raw[4:]),
		ymin:         binary.LittleEndian.Uint16(raw[6:]),
		xmax:         binary.LittleEndian.Uint16(raw[8:]),
		ymax:         binary.LittleEndian.Uint16(raw[10:]),
		colorPlanes:  raw[65],
		bytesPerLine: binary.LittleEndian.Uint16(raw[66:]),
	}
}

// PCXDimensions reads width and height from a PCX header the way the
// dimension recovery path does: xmax+1 by ymax+1, origin ignored.
func PCXDimensions(hdr []byte) (w, h int, ok bool) {
	if len(hdr) < PCXHeaderSize {
		return 0, 0, false
	}
	p := readPCXHeader(hdr)
	return int(p.xmax) + 1, int(p.ymax) + 1, true
}

// validate checks the header and returns the image size and scanline stride.
func (p pcxHeader) validate() (w, h, scan int, err error) {
	if p.manufacturer != 10 || p.version != 5 {
		return 0, 0, 0, ErrUnknownFormat
	}
	if p.encoding != 1 || p.bitsPerPixel != 8 {
		return 0, 0, 0, ErrInvalidFormat
	}
	w = int(p.xmax) - int(p.xmin) + 1
	h = int(p.ymax) - int(p.ymin) + 1
	if w < 1 || h < 1 || w > 640 || h > 480 || w*h > MaxPalettedPixels {
		return 0, 0, 0, ErrInvalidFormat
	}
	if p.colorPlanes != 1 {
		return 0, 0, 0, ErrInvalidFormat
	}
	scan = int(p.bytesPerLine)
	if scan < w {
		return 0, 0, 0, ErrInvalidFormat
	}
	return w, h, scan, nil
}

// DecodePCX decodes an 8-bit single plane run-length encoded PCX into an
// indexed buffer.
func DecodePCX(raw []byte) (*Buffer, error) {
	if len(raw) < PCXHeaderSize {
		return nil, fmt.Errorf("pcx: %w", ErrFileTooSmall)
	}
	w, h, scan, err := readPCXHeader(raw).validate()
	if err != nil {
		return nil, fmt.Errorf("pcx: %w", err)
	}

	out := make([]byte, w*h)
	src := raw[PCXHeaderSize:]
	pos := 0
	for y := 0; y < h; y++ {
		row := out[y*w : y*w+w]
		for x := 0; x < scan; {
			if pos >= len(src) {
				return nil, fmt.Errorf("pcx: row %d: %w", y, ErrBadRLEPacket)
			}
			b := src[pos]
			pos++

			run := 1
			if b&0xC0 == 0xC0 {
				run = int(b & 0x3F)
				if x+run > scan {
					return nil, fmt.Errorf("pcx: row %d: run of %d overflows scanline: %w", y, run, ErrBadRLEPacket)
				}
				if pos >= len(src) {
					return nil, fmt.Errorf("pcx: row %d: %w", y, ErrBadRLEPacket)
				}
				b = src[pos]
				pos++
			}

			for ; run > 0; run-- {
				// bytes past the width are scanline padding
				if x < w {
					row[x] = b
				}
				x++
			}
		}
	}

	return &Buffer{Pix: out, Width: w, Height: h, Indexed: true}, nil
}

// PCXPalette validates the header and returns the trailing 768-byte RGB
// palette block.
func PCXPalette(raw []byte) ([]byte, error) {
	if len(raw) < PCXHeaderSize {
		return nil, fmt.Errorf("pcx: %w", ErrFileTooSmall)
	}
	if _, _, _, err := readPCXHeader(raw).validate(); err != nil {
		return nil, fmt.Errorf("pcx: %w", err)
	}
	if len(raw) < pcxPaletteSize {
		return nil, fmt.Errorf("pcx: palette: %w", ErrFileTooSmall)
	}
	pal := make([]byte, pcxPaletteSize)
	copy(pal, raw[len(raw)-pcxPaletteSize:])
	return pal, nil
}
