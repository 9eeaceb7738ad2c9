package screenshot

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"

	"q2images/internal/encode"
)

// ImageFrame serves a still image as if it were the framebuffer, for
// capturing without a live renderer.
type ImageFrame struct {
	Image image.Image
}

// ReadPixels implements FrameSource. The image is flipped so rows come out
// bottom to top the way a framebuffer readback does.
func (f ImageFrame) ReadPixels(bgr bool) (*encode.Frame, error) {
	if f.Image == nil || f.Image.Bounds().Empty() {
		return nil, errors.New("screenshot: no image")
	}
	flipped := imaging.FlipV(f.Image)
	w, h := flipped.Rect.Dx(), flipped.Rect.Dy()

	frame := &encode.Frame{Pix: make([]byte, w*h*3), Width: w, Height: h, BGR: bgr}
	for y := 0; y < h; y++ {
		src := flipped.Pix[y*flipped.Stride:]
		dst := frame.Pix[y*w*3:]
		for x := 0; x < w; x++ {
			r, g, b := src[x*4], src[x*4+1], src[x*4+2]
			if bgr {
				r, b = b, r
			}
			dst[x*3], dst[x*3+1], dst[x*3+2] = r, g, b
		}
	}
	return frame, nil
}
