package decode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/webp"
)

// codec is a third-party decoder behind a single fallible boundary.
type codec struct {
	name   string
	config func(io.Reader) (image.Config, error)
	decode func(io.Reader) (image.Image, error)
	// check rejects color models the format must not produce.
	check func(image.Config) error
}

var (
	jpegCodec = codec{
		name:   "jpeg",
		config: jpeg.DecodeConfig,
		decode: jpeg.Decode,
		check: func(cfg image.Config) error {
			if cfg.ColorModel == color.CMYKModel {
				return fmt.Errorf("invalid image color space: %w", ErrInvalidFormat)
			}
			return nil
		},
	}
	pngCodec  = codec{name: "png", config: png.DecodeConfig, decode: png.Decode}
	webpCodec = codec{name: "webp", config: webp.DecodeConfig, decode: webp.Decode}
)

// DecodeJPEG decodes baseline and progressive JPEG, RGB or grayscale.
func DecodeJPEG(raw []byte) (*Buffer, error) { return jpegCodec.run(raw) }

// DecodePNG decodes any PNG variant: palette, grayscale, 16-bit, interlaced
// and alpha images are all normalized to 8-bit RGBA.
func DecodePNG(raw []byte) (*Buffer, error) { return pngCodec.run(raw) }

// DecodeWebP decodes lossy and lossless WebP.
func DecodeWebP(raw []byte) (*Buffer, error) { return webpCodec.run(raw) }

// run decodes raw. A panic inside the library unwinds to here and becomes
// ErrLibrary; the library holds no state past the call.
func (c codec) run(raw []byte) (buf *Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("%s: %v: %w", c.name, r, ErrLibrary)
		}
	}()

	cfg, err := c.config(bytes.NewReader(raw))
	if err != nil {
		return nil, c.wrap(err)
	}
	if cfg.Width < 1 || cfg.Height < 1 || cfg.Width > MaxTextureSize || cfg.Height > MaxTextureSize {
		return nil, fmt.Errorf("%s: %dx%d: invalid image dimensions: %w", c.name, cfg.Width, cfg.Height, ErrInvalidFormat)
	}
	if c.check != nil {
		if err := c.check(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
	}

	img, err := c.decode(bytes.NewReader(raw))
	if err != nil {
		return nil, c.wrap(err)
	}
	return toRGBA(img), nil
}

func (c codec) wrap(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", c.name, ErrFileTooSmall)
	}
	return fmt.Errorf("%s: %w: %w", c.name, ErrLibrary, err)
}

// toRGBA flattens any decoded image into a straight-alpha RGBA buffer.
func toRGBA(src image.Image) *Buffer {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*4)

	switch s := src.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out[y*w*4:(y+1)*w*4], s.Pix[i:i+w*4])
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			for x, v := range s.Pix[i : i+w] {
				o := (y*w + x) * 4
				out[o], out[o+1], out[o+2], out[o+3] = v, v, v, 255
			}
		}
	case *image.YCbCr:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				yi := s.YOffset(b.Min.X+x, b.Min.Y+y)
				ci := s.COffset(b.Min.X+x, b.Min.Y+y)
				r, g, bl := color.YCbCrToRGB(s.Y[yi], s.Cb[ci], s.Cr[ci])
				o := (y*w + x) * 4
				out[o], out[o+1], out[o+2], out[o+3] = r, g, bl, 255
			}
		}
	case *image.NRGBA64:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w*4; x++ {
				out[y*w*4+x] = s.Pix[i+x*2]
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				o := (y*w + x) * 4
				out[o], out[o+1], out[o+2], out[o+3] = c.R, c.G, c.B, c.A
			}
		}
	}

	return &Buffer{Pix: out, Width: w, Height: h}
}
