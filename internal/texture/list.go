package texture

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	flagColor  = color.New(color.FgYellow)
	totalColor = color.New(color.Bold)
)

// List writes the imagelist report: one line per live image with its
// type letter, transparent/scrap/permanent flags, upload size, PAL or RGB
// and name, then the totals.
func (m *Manager) List(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "------------------"); err != nil {
		return err
	}
	texels, count := 0, 0
	for h := Handle(1); int(h) < m.numImages; h++ {
		img := &m.slots[h]
		if !img.inUse() {
			continue
		}

		flags := []byte{' ', ' ', ' '}
		if img.Flags&Transparent != 0 {
			flags[0] = 'T'
		}
		if img.Flags&Scrap != 0 {
			flags[1] = 'S'
		}
		if img.Flags&Permanent != 0 {
			flags[2] = '*'
		}
		kind := "RGB"
		if img.Flags&Paletted != 0 {
			kind = "PAL"
		}

		_, err := fmt.Fprintf(w, "%c%s %4d %4d %s: %s\n",
			img.Type.Letter(), flagColor.Sprint(string(flags)),
			img.UploadWidth, img.UploadHeight, kind, img.Name)
		if err != nil {
			return err
		}
		texels += img.UploadWidth * img.UploadHeight
		count++
	}
	if _, err := totalColor.Fprintf(w, "Total images: %d (out of %d slots)\n", count, m.numImages); err != nil {
		return err
	}
	_, err := totalColor.Fprintf(w, "Total texels: %d (not counting mipmaps)\n", texels)
	return err
}
