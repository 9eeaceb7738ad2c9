package upload

// Scrap packing keeps small HUD pictures in one shared atlas instead of a
// texture each.
const (
	ScrapSize = 256
	// ScrapMaxDim is the largest picture side that goes to the atlas.
	ScrapMaxDim = 64
)

// Scrap is a ScrapSize square RGBA atlas filled column by column.
type Scrap struct {
	Pix       []byte
	allocated [ScrapSize]int
}

// NewScrap returns an empty atlas.
func NewScrap() *Scrap {
	return &Scrap{Pix: make([]byte, ScrapSize*ScrapSize*4)}
}

// Alloc reserves a w×h block and returns its top-left corner. The block
// goes where the tallest column it covers is lowest.
func (s *Scrap) Alloc(w, h int) (x, y int, ok bool) {
	if w < 1 || h < 1 || w > ScrapSize || h > ScrapSize {
		return 0, 0, false
	}
	best := ScrapSize
	for i := 0; i <= ScrapSize-w; i++ {
		top := 0
		j := 0
		for ; j < w; j++ {
			if s.allocated[i+j] >= best {
				break
			}
			top = max(top, s.allocated[i+j])
		}
		if j == w {
			x, best = i, top
		}
	}
	if best+h > ScrapSize {
		return 0, 0, false
	}
	for i := 0; i < w; i++ {
		s.allocated[x+i] = best + h
	}
	return x, best, true
}

// Blit copies w×h RGBA pixels into the atlas at x, y.
func (s *Scrap) Blit(pix []byte, x, y, w, h int) {
	for row := 0; row < h; row++ {
		dst := ((y+row)*ScrapSize + x) * 4
		copy(s.Pix[dst:dst+w*4], pix[row*w*4:(row+1)*w*4])
	}
}

// Reset empties the atlas.
func (s *Scrap) Reset() {
	clear(s.Pix)
	s.allocated = [ScrapSize]int{}
}
