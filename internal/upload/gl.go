// Package upload holds the renderer side of image loading: the copying
// uploader a hardware renderer uses and the retaining one of the software
// renderer.
package upload

import (
	"github.com/hashicorp/go-hclog"

	"q2images/internal/decode"
	"q2images/internal/texture"
)

// Texture is what the copying uploader keeps per image.
type Texture struct {
	// Levels is the mip chain, level 0 at the upload size. Empty for
	// scrap-packed images.
	Levels [][]byte
	// Scrap images live in the atlas at X, Y.
	InScrap bool
	X, Y    int
}

// GL copies decoded pixels into power-of-two RGBA textures with a mip
// chain for world surfaces, and packs small paletted pictures into the
// scrap atlas.
type GL struct {
	scrap  *Scrap
	logger hclog.Logger

	textures int
	bytes    int
}

// NewGL returns a copying uploader.
func NewGL(logger hclog.Logger) *GL {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GL{scrap: NewScrap(), logger: logger}
}

// Resident returns the number of textures held and their size in bytes.
func (g *GL) Resident() (textures, bytes int) { return g.textures, g.bytes }

func mipmapped(t texture.Type) bool {
	return t == texture.Wall || t == texture.Skin || t == texture.Sprite
}

// Upload implements texture.Uploader.
func (g *GL) Upload(img *texture.Image, buf *decode.Buffer, pal *decode.Palette) texture.UploadResult {
	if buf.Indexed && pal == nil {
		pal = grayPalette()
	}
	rgba := buf
	if buf.Indexed {
		rgba = pal.Expand(buf)
	}
	w, h := buf.Width, buf.Height

	if img.Type == texture.Pic && buf.Indexed && w <= ScrapMaxDim && h <= ScrapMaxDim {
		if x, y, ok := g.scrap.Alloc(w, h); ok {
			g.scrap.Blit(rgba.Pix, x, y, w, h)
			img.Texture = &Texture{InScrap: true, X: x, Y: y}
			return texture.UploadResult{Width: w, Height: h, Scrap: true}
		}
	}

	uw, uh := PowerOfTwo(w), PowerOfTwo(h)
	level := Resample(rgba.Pix[:w*h*4], w, h, uw, uh)
	if &level[0] == &buf.Pix[0] {
		level = append([]byte(nil), level...)
	}
	tex := &Texture{Levels: [][]byte{level}}
	size := len(level)
	if mipmapped(img.Type) {
		lw, lh := uw, uh
		for lw > 1 || lh > 1 {
			level, lw, lh = MipMap(level, lw, lh)
			tex.Levels = append(tex.Levels, level)
			size += len(level)
		}
	}

	img.Texture = tex
	g.textures++
	g.bytes += size
	g.logger.Trace("uploaded", "name", img.Name, "width", uw, "height", uh, "levels", len(tex.Levels))
	return texture.UploadResult{Width: uw, Height: uh}
}

// Unload implements texture.Uploader. Atlas space is only reclaimed by
// Reset, since scrap images are never swept.
func (g *GL) Unload(img *texture.Image) {
	tex, ok := img.Texture.(*Texture)
	img.Texture = nil
	if !ok || tex.InScrap {
		return
	}
	for _, l := range tex.Levels {
		g.bytes -= len(l)
	}
	g.textures--
}

// Reset implements texture.Uploader. It empties the atlas and counters.
func (g *GL) Reset() {
	g.scrap.Reset()
	g.textures, g.bytes = 0, 0
}

func grayPalette() *decode.Palette {
	rgb := make([]byte, 768)
	for i := range rgb {
		rgb[i] = byte(i / 3)
	}
	return decode.NewPalette(rgb)
}
