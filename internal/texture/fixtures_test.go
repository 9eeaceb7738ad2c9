package texture

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"q2images/internal/decode"
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
	pal := make([]byte, 768)
	for i := range pal {
		pal[i] = byte(i / 3)
	}
	return append(out, pal...)
}

// walBytes builds a w×h miptex with its pixel data right after the header.
func walBytes(w, h int) []byte {
	raw := make([]byte, decode.WALHeaderSize+int(decode.MipSize(uint64(w*h))))
	binary.LittleEndian.PutUint32(raw[32:], uint32(w))
	binary.LittleEndian.PutUint32(raw[36:], uint32(h))
	binary.LittleEndian.PutUint32(raw[40:], decode.WALHeaderSize)
	return raw
}

func pngBytes(t *testing.T, w, h int, alpha uint8) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 7, alpha})
		}
	}
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

// recordingUploader counts uploads and unloads.
type recordingUploader struct {
	retain  bool
	scrap   func(*Image) bool
	uploads int
	unloads int
	resets  int
	pal     *decode.Palette
}

func (u *recordingUploader) Upload(img *Image, buf *decode.Buffer, pal *decode.Palette) UploadResult {
	u.uploads++
	u.pal = pal
	return UploadResult{
		Width:  buf.Width,
		Height: buf.Height,
		Retain: u.retain,
		Scrap:  u.scrap != nil && u.scrap(img),
	}
}

func (u *recordingUploader) Unload(*Image) { u.unloads++ }

func (u *recordingUploader) Reset() { u.resets++ }

// fatalRecorder stands in for the host's fatal path.
type fatalRecorder struct{ errs []error }

func (f *fatalRecorder) fatal(err error) { f.errs = append(f.errs, err) }

func newMemFS() *vfs.Mem {
	fs := vfs.NewMem()
	fs.Add(PaletteFile, pcxBytes(1, 1, 0))
	return fs
}

func newManager(t *testing.T, fs vfs.FS, u Uploader, formats string, override bool) *Manager {
	t.Helper()
	return New(Options{
		FS:       fs,
		Uploader: u,
		Formats:  formats,
		Override: override,
		Fatal:    func(err error) { t.Fatalf("unexpected fatal: %v", err) },
	})
}

// checkLedger asserts every loaded buffer was released exactly once.
func checkLedger(t *testing.T, fs *vfs.Mem) {
	t.Helper()
	if out := fs.Outstanding(); len(out) != 0 {
		t.Errorf("buffers never released: %v", out)
	}
	if n := fs.DoubleFrees(); n != 0 {
		t.Errorf("%d buffers released twice", n)
	}
}
