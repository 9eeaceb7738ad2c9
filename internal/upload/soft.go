package upload

import (
	"q2images/internal/decode"
	"q2images/internal/texture"
)

// Soft is the software renderer's uploader. It draws straight from the
// decoded buffer, so it asks the manager to keep it, paletted pixels
// included.
type Soft struct {
	resident int
}

// Upload implements texture.Uploader.
func (s *Soft) Upload(img *texture.Image, buf *decode.Buffer, _ *decode.Palette) texture.UploadResult {
	s.resident += len(buf.Pix)
	img.Texture = len(buf.Pix)
	return texture.UploadResult{Width: buf.Width, Height: buf.Height, Retain: true}
}

// Unload implements texture.Uploader.
func (s *Soft) Unload(img *texture.Image) {
	if n, ok := img.Texture.(int); ok {
		s.resident -= n
	}
	img.Texture = nil
}

// Reset implements texture.Uploader.
func (s *Soft) Reset() { s.resident = 0 }

// Resident returns the bytes of pixel data currently retained.
func (s *Soft) Resident() int { return s.resident }
