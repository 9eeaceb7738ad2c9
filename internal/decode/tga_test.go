package decode

import (
	"errors"
	"testing"
)

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x2, 24 bit, bottom-up: first stored row is the bottom one
	raw := tgaHeader(2, 2, 2, 24, 0)
	raw = append(raw,
		0, 0, 255, 0, 255, 0, // bottom: red, green
		255, 0, 0, 255, 255, 255, // top: blue, white
	)

	buf, err := DecodeTGA(raw)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	want := map[[2]int][4]byte{
		{0, 0}: {0, 0, 255, 255},
		{1, 0}: {255, 255, 255, 255},
		{0, 1}: {255, 0, 0, 255},
		{1, 1}: {0, 255, 0, 255},
	}
	for xy, c := range want {
		if got := rgbaAt(buf, xy[0], xy[1]); got != c {
			t.Errorf("pixel %v = %v, want %v", xy, got, c)
		}
	}
}

func TestDecodeTGATopOrigin32(t *testing.T) {
	raw := tgaHeader(2, 2, 1, 32, tgaTopOrigin)
	raw = append(raw, 1, 2, 3, 4, 5, 6, 7, 8)

	buf, err := DecodeTGA(raw)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if got := rgbaAt(buf, 0, 0); got != [4]byte{3, 2, 1, 4} {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := rgbaAt(buf, 1, 0); got != [4]byte{7, 6, 5, 8} {
		t.Errorf("pixel 1 = %v", got)
	}
}

func TestDecodeTGARLESpansRows(t *testing.T) {
	// 3x2: a run of 4 red fills the bottom row and the first pixel of the
	// top row, then two raw pixels finish the image.
	raw := tgaHeader(10, 3, 2, 24, 0)
	raw = append(raw,
		0x83, 0, 0, 255,
		0x01, 255, 0, 0, 0, 255, 0,
	)

	buf, err := DecodeTGA(raw)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	red := [4]byte{255, 0, 0, 255}
	for x := 0; x < 3; x++ {
		if got := rgbaAt(buf, x, 1); got != red {
			t.Errorf("bottom row pixel %d = %v, want red", x, got)
		}
	}
	if got := rgbaAt(buf, 0, 0); got != red {
		t.Errorf("top row pixel 0 = %v, want red", got)
	}
	if got := rgbaAt(buf, 1, 0); got != [4]byte{0, 0, 255, 255} {
		t.Errorf("top row pixel 1 = %v, want blue", got)
	}
	if got := rgbaAt(buf, 2, 0); got != [4]byte{0, 255, 0, 255} {
		t.Errorf("top row pixel 2 = %v, want green", got)
	}
}

func TestDecodeTGARLEStopsAtTopRow(t *testing.T) {
	// a single run packet claiming 128 pixels for a 2x2 image, with no
	// further source data
	raw := tgaHeader(10, 2, 2, 32, 0)
	raw = append(raw, 0xFF, 10, 20, 30, 40)

	buf, err := DecodeTGA(raw)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := rgbaAt(buf, x, y); got != [4]byte{30, 20, 10, 40} {
				t.Errorf("pixel %d,%d = %v", x, y, got)
			}
		}
	}

	// raw packet claiming more pixels than remain, but enough source bytes
	raw = tgaHeader(10, 1, 1, 24, 0)
	raw = append(raw, 0x02, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	if _, err := DecodeTGA(raw); err != nil {
		t.Errorf("raw packet past last pixel: %v", err)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"short header", make([]byte, TGAHeaderSize-1), ErrFileTooSmall},
		{"comment past end", func() []byte { h := tgaHeader(2, 1, 1, 24, 0); h[0] = 200; return append(h, 0, 0, 0, 0) }(), ErrBadExtent},
		{"16 bit", append(tgaHeader(2, 1, 1, 16, 0), 0, 0, 0, 0), ErrInvalidFormat},
		{"zero width", append(tgaHeader(2, 0, 1, 24, 0), 0, 0, 0, 0), ErrInvalidFormat},
		{"too large", append(tgaHeader(2, MaxTextureSize+1, 1, 24, 0), 0, 0, 0, 0), ErrInvalidFormat},
		{"colormapped", append(tgaHeader(1, 1, 1, 24, 0), 0, 0, 0, 0), ErrInvalidFormat},
		{"truncated pixels", append(tgaHeader(2, 4, 4, 24, 0), 0, 0, 0, 0), ErrBadExtent},
		{"flipped rle", append(tgaHeader(10, 1, 1, 24, tgaTopOrigin), 0x80, 0, 0, 0), ErrInvalidFormat},
		{"rle run truncated", append(tgaHeader(10, 2, 2, 32, 0), 0x81, 1, 2, 3), ErrBadRLEPacket},
		{"rle raw truncated", append(tgaHeader(10, 2, 2, 24, 0), 0x03, 1, 2, 3, 4, 5, 6), ErrBadRLEPacket},
		{"rle source exhausted", append(tgaHeader(10, 2, 2, 24, 0), 0x80, 1, 2, 3), ErrBadRLEPacket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.raw); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
