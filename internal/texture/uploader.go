package texture

import "q2images/internal/decode"

// Uploader hands decoded pixels to the renderer. Upload is called once per
// loaded image; pal is the game palette whenever buf is indexed.
//
// An uploader that copies the pixels returns Retain false and the manager
// releases any file bytes the buffer borrows right away. One that keeps
// the buffer returns Retain true; the manager then holds the buffer until
// Unload and releases it afterwards.
//
// Reset is called by FreeAll once every image has been unloaded, so shared
// renderer state such as an atlas can start over.
type Uploader interface {
	Upload(img *Image, buf *decode.Buffer, pal *decode.Palette) UploadResult
	Unload(img *Image)
	Reset()
}

// UploadResult reports what the renderer did with an image.
type UploadResult struct {
	Width, Height int
	// Scrap is set when the image was packed into a shared atlas.
	Scrap  bool
	Retain bool
}

type nopUploader struct{}

func (nopUploader) Upload(_ *Image, buf *decode.Buffer, _ *decode.Palette) UploadResult {
	return UploadResult{Width: buf.Width, Height: buf.Height}
}

func (nopUploader) Unload(*Image) {}

func (nopUploader) Reset() {}
