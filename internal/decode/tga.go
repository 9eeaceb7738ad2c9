package decode

import (
	"encoding/binary"
	"fmt"
)

// TGAHeaderSize is the fixed Truevision TGA header size.
const TGAHeaderSize = 18

const (
	tgaTypeTrueColor    = 2
	tgaTypeRLETrueColor = 10
	tgaTopOrigin        = 0x20
)

// DecodeTGA decodes 24 and 32 bit uncompressed or run-length truecolor
// targa images into RGBA.
func DecodeTGA(raw []byte) (*Buffer, error) {
	if len(raw) < TGAHeaderSize {
		return nil, fmt.Errorf("tga: %w", ErrFileTooSmall)
	}

	idLength := int(raw[0])
	imageType := raw[2]
	w := int(binary.LittleEndian.Uint16(raw[12:]))
	h := int(binary.LittleEndian.Uint16(raw[14:]))
	pixelSize := raw[16]
	attributes := raw[17]

	// skip the image comment
	offset := TGAHeaderSize + idLength
	if offset+4 > len(raw) {
		return nil, fmt.Errorf("tga: %w", ErrBadExtent)
	}

	var bpp int
	switch pixelSize {
	case 32:
		bpp = 4
	case 24:
		bpp = 3
	default:
		return nil, fmt.Errorf("tga: %d bit: only 24 and 32 bit images supported: %w", pixelSize, ErrInvalidFormat)
	}

	if w < 1 || h < 1 || w > MaxTextureSize || h > MaxTextureSize {
		return nil, fmt.Errorf("tga: %dx%d: %w", w, h, ErrInvalidFormat)
	}

	in := raw[offset:]
	out := make([]byte, w*h*4)

	switch imageType {
	case tgaTypeTrueColor:
		if w*h*bpp > len(in) {
			return nil, fmt.Errorf("tga: %w", ErrBadExtent)
		}
		tgaCopyRows(in, out, w, h, bpp, attributes&tgaTopOrigin == 0)
	case tgaTypeRLETrueColor:
		if attributes&tgaTopOrigin != 0 {
			return nil, fmt.Errorf("tga: vertically flipped RLE images are not supported: %w", ErrInvalidFormat)
		}
		if err := tgaDecodeRLE(in, out, w, h, bpp); err != nil {
			return nil, fmt.Errorf("tga: %w", err)
		}
	default:
		return nil, fmt.Errorf("tga: type %d: only type 2 and 10 images supported: %w", imageType, ErrInvalidFormat)
	}

	return &Buffer{Pix: out, Width: w, Height: h}, nil
}

// tgaCopyRows converts BGR[A] to RGBA. Bottom-origin files store the last
// row first.
func tgaCopyRows(in, out []byte, cols, rows, bpp int, bottomUp bool) {
	for r := 0; r < rows; r++ {
		row := r
		if bottomUp {
			row = rows - 1 - r
		}
		dst := out[row*cols*4 : (row+1)*cols*4]
		for c := 0; c < cols; c++ {
			tgaPixel(dst[c*4:], in, bpp)
			in = in[bpp:]
		}
	}
}

func tgaPixel(dst, src []byte, bpp int) {
	dst[0] = src[2]
	dst[1] = src[1]
	dst[2] = src[0]
	if bpp == 4 {
		dst[3] = src[3]
	} else {
		dst[3] = 255
	}
}

// tgaDecodeRLE expands run-length packets bottom-up. Packets may span row
// boundaries; once the top row is filled decoding stops even if the
// current packet claims more pixels.
func tgaDecodeRLE(in, out []byte, cols, rows, bpp int) error {
	pos := 0
	row, col := rows-1, 0

	// advance moves to the next pixel and reports false when the image is full.
	advance := func() bool {
		col++
		if col < cols {
			return true
		}
		col = 0
		if row == 0 {
			return false
		}
		row--
		return true
	}

	for {
		if pos >= len(in) {
			return ErrBadRLEPacket
		}
		header := in[pos]
		pos++
		count := 1 + int(header&0x7F)

		if header&0x80 != 0 {
			if pos+bpp > len(in) {
				return ErrBadRLEPacket
			}
			var px [4]byte
			tgaPixel(px[:], in[pos:], bpp)
			pos += bpp
			for ; count > 0; count-- {
				copy(out[(row*cols+col)*4:], px[:])
				if !advance() {
					return nil
				}
			}
		} else {
			if pos+count*bpp > len(in) {
				return ErrBadRLEPacket
			}
			for ; count > 0; count-- {
				tgaPixel(out[(row*cols+col)*4:], in[pos:], bpp)
				pos += bpp
				if !advance() {
					return nil
				}
			}
		}
	}
}
