package decode

import (
	"encoding/binary"
	"testing"
)

// pcxFile builds a PCX with the given dimensions, stride and already
// encoded pixel stream.
func pcxFile(t *testing.T, w, h, scan int, body []byte) []byte {
	t.Helper()
	hdr := make([]byte, PCXHeaderSize)
	hdr[0] = 10
	hdr[1] = 5
	hdr[2] = 1
	hdr[3] = 8
	binary.LittleEndian.PutUint16(hdr[8:], uint16(w-1))
	binary.LittleEndian.PutUint16(hdr[10:], uint16(h-1))
	hdr[65] = 1
	binary.LittleEndian.PutUint16(hdr[66:], uint16(scan))
	return append(hdr, body...)
}

// pcxEncode run-length encodes rows of indices, one literal or run per byte.
func pcxEncode(rows [][]byte) []byte {
	var out []byte
	for _, row := range rows {
		for i := 0; i < len(row); {
			v := row[i]
			n := 1
			for i+n < len(row) && row[i+n] == v && n < 63 {
				n++
			}
			if n > 1 || v&0xC0 == 0xC0 {
				out = append(out, 0xC0|byte(n), v)
			} else {
				out = append(out, v)
			}
			i += n
		}
	}
	return out
}

func walFile(t *testing.T, w, h, offset uint32, size int) []byte {
	t.Helper()
	raw := make([]byte, size)
	copy(raw, "textures/e1u1/floor1")
	binary.LittleEndian.PutUint32(raw[32:], w)
	binary.LittleEndian.PutUint32(raw[36:], h)
	binary.LittleEndian.PutUint32(raw[40:], offset)
	return raw
}

func tgaHeader(imageType byte, w, h int, depth, attr byte) []byte {
	hdr := make([]byte, TGAHeaderSize)
	hdr[2] = imageType
	binary.LittleEndian.PutUint16(hdr[12:], uint16(w))
	binary.LittleEndian.PutUint16(hdr[14:], uint16(h))
	hdr[16] = depth
	hdr[17] = attr
	return hdr
}

func rgbaAt(b *Buffer, x, y int) [4]byte {
	i := (y*b.Width + x) * 4
	return [4]byte{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}
