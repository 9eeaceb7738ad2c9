package upload

import (
	"image"

	"golang.org/x/image/draw"

	"q2images/internal/decode"
)

// PowerOfTwo returns the smallest power of two not below n, capped at
// decode.MaxTextureSize.
func PowerOfTwo(n int) int {
	p := 1
	for p < n && p < decode.MaxTextureSize {
		p <<= 1
	}
	return p
}

// Resample scales RGBA pixels to w×h. Alpha is premultiplied around the
// filter so transparent edges do not bleed dark halos.
func Resample(pix []byte, inW, inH, w, h int) []byte {
	if inW == w && inH == h {
		return pix
	}

	src := &image.NRGBA{Pix: pix, Stride: inW * 4, Rect: image.Rect(0, 0, inW, inH)}
	premul := image.NewRGBA(src.Rect)
	for i := 0; i < len(premul.Pix); i += 4 {
		a := float64(src.Pix[i+3]) / 255.0
		premul.Pix[i] = uint8(float64(src.Pix[i])*a + 0.5)
		premul.Pix[i+1] = uint8(float64(src.Pix[i+1])*a + 0.5)
		premul.Pix[i+2] = uint8(float64(src.Pix[i+2])*a + 0.5)
		premul.Pix[i+3] = src.Pix[i+3]
	}

	// CatmullRom for shrinking, bilinear when growing
	var scaler draw.Scaler = draw.BiLinear
	if w < inW || h < inH {
		scaler = draw.CatmullRom
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	out := make([]byte, w*h*4)
	for i := 0; i < len(out); i += 4 {
		a := float64(dst.Pix[i+3])
		if a > 1 {
			inv := 255.0 / a
			out[i] = clamp8(float64(dst.Pix[i]) * inv)
			out[i+1] = clamp8(float64(dst.Pix[i+1]) * inv)
			out[i+2] = clamp8(float64(dst.Pix[i+2]) * inv)
		}
		out[i+3] = dst.Pix[i+3]
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// MipMap halves an RGBA image with a 2×2 box filter. A dimension already
// at 1 stays 1.
func MipMap(pix []byte, w, h int) (out []byte, mw, mh int) {
	mw, mh = max(w/2, 1), max(h/2, 1)
	out = make([]byte, mw*mh*4)
	for y := 0; y < mh; y++ {
		y0 := min(y*2, h-1)
		y1 := min(y*2+1, h-1)
		for x := 0; x < mw; x++ {
			x0 := min(x*2, w-1)
			x1 := min(x*2+1, w-1)
			a := pix[(y0*w+x0)*4:]
			b := pix[(y0*w+x1)*4:]
			c := pix[(y1*w+x0)*4:]
			d := pix[(y1*w+x1)*4:]
			o := out[(y*mw+x)*4:]
			for k := 0; k < 4; k++ {
				o[k] = byte((int(a[k]) + int(b[k]) + int(c[k]) + int(d[k])) >> 2)
			}
		}
	}
	return out, mw, mh
}
