package upload

import (
	"encoding/binary"
	"fmt"
	"testing"

	"q2images/internal/decode"
	"q2images/internal/texture"
	"q2images/internal/vfs"
)

// pcxBytes builds a w×h PCX filled with index, palette included.
func pcxBytes(w, h int, index byte) []byte {
	hdr := make([]byte, decode.PCXHeaderSize)
	hdr[0], hdr[1], hdr[2], hdr[3] = 10, 5, 1, 8
	binary.LittleEndian.PutUint16(hdr[8:], uint16(w-1))
	binary.LittleEndian.PutUint16(hdr[10:], uint16(h-1))
	hdr[65] = 1
	binary.LittleEndian.PutUint16(hdr[66:], uint16(w))

	out := hdr
	for i := 0; i < w*h; i++ {
		out = append(out, 0xC1, index)
	}
	out = append(out, 0x0C)
	return append(out, make([]byte, 768)...)
}

func TestGLScrapReclaimedByFreeAll(t *testing.T) {
	fs := vfs.NewMem()
	fs.Add(texture.PaletteFile, pcxBytes(1, 1, 0))
	// 16 blocks of 64×64 fill the 256×256 atlas
	const fill = (ScrapSize / ScrapMaxDim) * (ScrapSize / ScrapMaxDim)
	for i := 0; i <= fill; i++ {
		fs.Add(fmt.Sprintf("pics/p%02d.pcx", i), pcxBytes(ScrapMaxDim, ScrapMaxDim, 1))
	}

	g := NewGL(nil)
	m := texture.New(texture.Options{FS: fs, Uploader: g})

	inScrap := func(name string) bool {
		t.Helper()
		h, err := m.RegisterImage(name, texture.Pic, 0)
		if err != nil {
			t.Fatalf("RegisterImage(%s): %v", name, err)
		}
		return m.ForHandle(h).Flags&texture.Scrap != 0
	}

	for i := 0; i < fill; i++ {
		if !inScrap(fmt.Sprintf("p%02d", i)) {
			t.Fatalf("pic %d not packed into an empty atlas", i)
		}
	}
	last := fmt.Sprintf("p%02d", fill)
	if inScrap(last) {
		t.Fatal("full atlas accepted another pic")
	}

	m.FreeAll()
	if textures, bytes := g.Resident(); textures != 0 || bytes != 0 {
		t.Errorf("after FreeAll: %d textures, %d bytes", textures, bytes)
	}
	if !inScrap(last) {
		t.Error("atlas space not reclaimed by FreeAll")
	}
	if out := fs.Outstanding(); len(out) != 0 {
		t.Errorf("buffers never freed: %v", out)
	}
}
