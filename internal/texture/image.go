package texture

import "q2images/internal/decode"

// MaxQPath bounds the length of an image name, including the extension.
const MaxQPath = 64

// Handle is a stable index into the slot table. NoTexture is the
// permanent placeholder returned for missing images.
type Handle int

const NoTexture Handle = 0

// Type is what an image is used for. Lookups are keyed by name and type,
// so the same file registered as a pic and a skin occupies two slots.
type Type uint8

const (
	Pic Type = iota
	Font
	Skin
	Sprite
	Wall
	Sky
)

const typeLetters = "PFMSWY"

// Letter is the single-character code imagelist prints.
func (t Type) Letter() byte {
	if int(t) < len(typeLetters) {
		return typeLetters[t]
	}
	return '?'
}

// Flags describe an image.
type Flags uint8

const (
	Transparent Flags = 1 << iota
	Paletted
	Scrap
	Permanent
)

// Image is one slot of the table.
type Image struct {
	// Name is the path the pixels were actually loaded from. Its extension
	// may differ from the one requested.
	Name  string
	Type  Type
	Flags Flags

	Width, Height             int
	UploadWidth, UploadHeight int

	// Registration is the epoch the image was last touched in; zero marks
	// a free slot.
	Registration uint32

	// Texture is renderer state set by the Uploader.
	Texture any

	baselen  int
	bucket   uint8
	next     Handle
	retained *decode.Buffer
}

// Pixels returns the buffer a retaining uploader kept, or nil.
func (img *Image) Pixels() *decode.Buffer { return img.retained }

func (img *Image) inUse() bool { return img.Registration != 0 }
