// Package encode writes screen captures as TGA, JPEG, PNG or WebP.
package encode

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
)

var (
	ErrWrite        = errors.New("write failed")
	ErrLibrary      = errors.New("library error")
	ErrInvalidFrame = errors.New("invalid frame")
)

// Frame is a framebuffer readback: packed 24-bit pixels, rows stored
// bottom to top. BGR frames carry blue first.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
	BGR    bool
}

// MaxFrameSide is the largest width or height a 16-bit TGA header holds.
const MaxFrameSide = 0xFFFF

func (f *Frame) validate() error {
	if f == nil || f.Width < 1 || f.Height < 1 || f.Width > MaxFrameSide || f.Height > MaxFrameSide {
		return ErrInvalidFrame
	}
	if len(f.Pix) < f.Width*f.Height*3 {
		return ErrInvalidFrame
	}
	return nil
}

// row returns stored row i, counting from the bottom.
func (f *Frame) row(i int) []byte {
	stride := f.Width * 3
	return f.Pix[i*stride : (i+1)*stride]
}

// Image converts the frame to a top-down RGBA image.
func (f *Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := f.row(f.Height - 1 - y)
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < f.Width; x++ {
			r, g, b := src[x*3], src[x*3+1], src[x*3+2]
			if f.BGR {
				r, b = b, r
			}
			dst[x*4], dst[x*4+1], dst[x*4+2], dst[x*4+3] = r, g, b, 255
		}
	}
	return img
}

// Func writes f to w. param is format specific: JPEG quality, PNG
// compression level; TGA and WebP ignore it.
type Func func(w io.Writer, f *Frame, param int) error

// Descriptor binds an encoder to its extension.
type Descriptor struct {
	Ext    string
	Encode Func
	// BGR is the channel order the encoder consumes natively.
	BGR bool
}

var descriptors = []Descriptor{
	{Ext: "tga", Encode: TGA, BGR: true},
	{Ext: "jpg", Encode: JPEG},
	{Ext: "png", Encode: PNG},
	{Ext: "webp", Encode: WebP},
}

// ForExt returns the encoder for an extension, with or without the dot.
func ForExt(ext string) (Descriptor, bool) {
	ext = strings.TrimPrefix(ext, ".")
	for _, d := range descriptors {
		if strings.EqualFold(d.Ext, ext) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// guard runs a library encoder and converts a panic into ErrLibrary.
func guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v: %w", name, r, ErrLibrary)
		}
	}()
	return fn()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
