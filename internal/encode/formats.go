package encode

import (
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

const tgaHeaderSize = 18

// TGA writes an uncompressed 24-bit targa. Rows go out bottom to top,
// which is the frame's native order.
func TGA(w io.Writer, f *Frame, _ int) error {
	if err := f.validate(); err != nil {
		return fmt.Errorf("tga: %w", err)
	}

	var header [tgaHeaderSize]byte
	header[2] = 2 // uncompressed truecolor
	header[12] = byte(f.Width)
	header[13] = byte(f.Width >> 8)
	header[14] = byte(f.Height)
	header[15] = byte(f.Height >> 8)
	header[16] = 24

	if err := writeFull(w, header[:]); err != nil {
		return fmt.Errorf("tga: %w", err)
	}

	if f.BGR {
		if err := writeFull(w, f.Pix[:f.Width*f.Height*3]); err != nil {
			return fmt.Errorf("tga: %w", err)
		}
		return nil
	}

	line := make([]byte, f.Width*3)
	for i := 0; i < f.Height; i++ {
		src := f.row(i)
		for x := 0; x < len(line); x += 3 {
			line[x], line[x+1], line[x+2] = src[x+2], src[x+1], src[x]
		}
		if err := writeFull(w, line); err != nil {
			return fmt.Errorf("tga: %w", err)
		}
	}
	return nil
}

// JPEG writes a baseline JPEG. quality is clamped to 1..100.
func JPEG(w io.Writer, f *Frame, quality int) error {
	if err := f.validate(); err != nil {
		return fmt.Errorf("jpeg: %w", err)
	}
	opts := &jpeg.Options{Quality: clamp(quality, 1, 100)}
	return stream("jpeg", w, func(cw io.Writer) error {
		return jpeg.Encode(cw, f.Image(), opts)
	})
}

// PNG writes an 8-bit RGB PNG. compression follows zlib levels 0..9.
func PNG(w io.Writer, f *Frame, compression int) error {
	if err := f.validate(); err != nil {
		return fmt.Errorf("png: %w", err)
	}
	enc := &png.Encoder{CompressionLevel: pngLevel(compression)}
	return stream("png", w, func(cw io.Writer) error {
		return enc.Encode(cw, f.Image())
	})
}

// WebP writes a lossless WebP.
func WebP(w io.Writer, f *Frame, _ int) error {
	if err := f.validate(); err != nil {
		return fmt.Errorf("webp: %w", err)
	}
	return stream("webp", w, func(cw io.Writer) error {
		return nativewebp.Encode(cw, f.Image(), nil)
	})
}

// stream runs a library encoder over a bounded chunk writer. A failed
// destination write wins over whatever the library reports.
func stream(name string, w io.Writer, enc func(io.Writer) error) error {
	cw := newChunkWriter(w)
	err := guard(name, func() error { return enc(cw) })
	if cw.err != nil {
		return fmt.Errorf("%s: %w", name, cw.err)
	}
	if errors.Is(err, ErrLibrary) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%s: %w: %w", name, ErrLibrary, err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func pngLevel(compression int) png.CompressionLevel {
	switch c := clamp(compression, 0, 9); {
	case c == 0:
		return png.NoCompression
	case c <= 3:
		return png.BestSpeed
	case c <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
