package texture

import (
	"fmt"

	"q2images/internal/decode"
)

// PaletteFile holds the game palette.
const PaletteFile = "pics/colormap.pcx"

// GetPalette returns the game palette, loading it on first use. Paletted
// images cannot be shown without it, so a missing or broken palette file
// is fatal.
func (m *Manager) GetPalette() *decode.Palette {
	if m.palette != nil {
		return m.palette
	}

	raw, err := m.fs.LoadFile(PaletteFile)
	if err != nil {
		m.fatal(fmt.Errorf("texture: couldn't load %s: %w", PaletteFile, err))
		return nil
	}
	rgb, err := decode.PCXPalette(raw)
	m.fs.FreeFile(raw)
	if err != nil {
		m.fatal(fmt.Errorf("texture: couldn't load %s: %w", PaletteFile, err))
		return nil
	}
	m.palette = decode.NewPalette(rgb)
	return m.palette
}
