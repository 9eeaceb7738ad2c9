package decode

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodePCX(t *testing.T) {
	rows := [][]byte{
		{1, 1, 1, 2},
		{0xC5, 3, 3, 3},
	}
	raw := pcxFile(t, 4, 2, 4, pcxEncode(rows))

	buf, err := DecodePCX(raw)
	if err != nil {
		t.Fatalf("DecodePCX failed: %v", err)
	}
	if buf.Width != 4 || buf.Height != 2 {
		t.Fatalf("got %dx%d, want 4x2", buf.Width, buf.Height)
	}
	if !buf.Indexed || buf.Borrowed() {
		t.Errorf("expected owned indexed buffer")
	}
	want := []byte{1, 1, 1, 2, 0xC5, 3, 3, 3}
	if !bytes.Equal(buf.Pix, want) {
		t.Errorf("pixels = %v, want %v", buf.Pix, want)
	}
}

func TestDecodePCXScanlinePadding(t *testing.T) {
	// stride 4 for a 3 pixel wide image: the fourth byte of each row is dropped
	rows := [][]byte{{7, 8, 9, 0xEE}, {4, 5, 6, 0xEE}}
	buf, err := DecodePCX(pcxFile(t, 3, 2, 4, pcxEncode(rows)))
	if err != nil {
		t.Fatalf("DecodePCX failed: %v", err)
	}
	want := []byte{7, 8, 9, 4, 5, 6}
	if !bytes.Equal(buf.Pix, want) {
		t.Errorf("pixels = %v, want %v", buf.Pix, want)
	}
}

func TestDecodePCXErrors(t *testing.T) {
	good := pcxFile(t, 4, 1, 4, []byte{0xC4, 9})

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"short header", good[:PCXHeaderSize-1], ErrFileTooSmall},
		{"bad manufacturer", func() []byte { b := bytes.Clone(good); b[0] = 11; return b }(), ErrUnknownFormat},
		{"bad version", func() []byte { b := bytes.Clone(good); b[1] = 3; return b }(), ErrUnknownFormat},
		{"not rle", func() []byte { b := bytes.Clone(good); b[2] = 0; return b }(), ErrInvalidFormat},
		{"24 bit", func() []byte { b := bytes.Clone(good); b[3] = 24; return b }(), ErrInvalidFormat},
		{"three planes", func() []byte { b := bytes.Clone(good); b[65] = 3; return b }(), ErrInvalidFormat},
		{"stride below width", pcxFile(t, 4, 1, 3, []byte{0xC3, 9}), ErrInvalidFormat},
		{"too wide", pcxFile(t, 641, 1, 641, nil), ErrInvalidFormat},
		{"run overflows scanline", pcxFile(t, 4, 1, 4, []byte{0xC5, 9}), ErrBadRLEPacket},
		{"run after partial row overflows", pcxFile(t, 4, 1, 4, []byte{1, 2, 0xC3, 9}), ErrBadRLEPacket},
		{"source ends mid row", pcxFile(t, 4, 1, 4, []byte{1, 2}), ErrBadRLEPacket},
		{"source ends mid run", pcxFile(t, 4, 1, 4, []byte{0xC4}), ErrBadRLEPacket},
		{"source ends before second row", pcxFile(t, 4, 2, 4, []byte{0xC4, 1}), ErrBadRLEPacket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := DecodePCX(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if buf != nil {
				t.Errorf("expected nil buffer on failure")
			}
		})
	}
}

func TestPCXPalette(t *testing.T) {
	raw := pcxFile(t, 2, 1, 2, []byte{0xC2, 0})
	pal := make([]byte, 768)
	for i := range pal {
		pal[i] = byte(i)
	}
	raw = append(raw, pal...)

	got, err := PCXPalette(raw)
	if err != nil {
		t.Fatalf("PCXPalette failed: %v", err)
	}
	if !bytes.Equal(got, pal) {
		t.Errorf("palette mismatch")
	}

	// header alone is shorter than a palette block
	if _, err := PCXPalette(raw[:PCXHeaderSize]); !errors.Is(err, ErrFileTooSmall) {
		t.Errorf("err = %v, want ErrFileTooSmall", err)
	}
}

func TestPCXDimensions(t *testing.T) {
	raw := pcxFile(t, 64, 32, 64, nil)
	w, h, ok := PCXDimensions(raw)
	if !ok || w != 64 || h != 32 {
		t.Errorf("PCXDimensions = %d, %d, %v; want 64, 32, true", w, h, ok)
	}
	if _, _, ok := PCXDimensions(raw[:10]); ok {
		t.Error("expected short header to fail")
	}
}
