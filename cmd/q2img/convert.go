package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/webp"

	"q2images/internal/batch"
	"q2images/internal/decode"
	"q2images/internal/encode"
	"q2images/internal/screenshot"
	"q2images/internal/texture"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert one image file",
	Long: `convert decodes any supported image and writes it in the format named
by the output extension (tga, jpg, png or webp). Paletted files take their
colors from pics/colormap.pcx in the game directory.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Int("quality", -1, "JPEG quality 0-100 (default from config)")
	convertCmd.Flags().Int("compression", -1, "PNG compression 0-9 (default from config)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	d, ok := encode.ForExt(filepath.Ext(out))
	if !ok {
		return fmt.Errorf("no encoder for %q", filepath.Ext(out))
	}
	param := 0
	switch d.Ext {
	case "jpg":
		param = cfg.ScreenshotQuality
		if q, _ := cmd.Flags().GetInt("quality"); q >= 0 {
			param = q
		}
	case "png":
		param = cfg.ScreenshotCompression
		if c, _ := cmd.Flags().GetInt("compression"); c >= 0 {
			param = c
		}
	}

	img, err := loadImage(in)
	if err != nil {
		return err
	}
	frame, err := screenshot.ImageFrame{Image: img}.ReadPixels(d.BGR)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := d.Encode(f, frame, param); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("converted", "input", in, "output", out, "width", frame.Width, "height", frame.Height)
	return nil
}

// loadImage decodes a file with the strict decoders, falling back to the
// registered image codecs for variants they reject (color-mapped TGA,
// for instance).
func loadImage(path string) (image.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format := decode.ForExt(filepath.Ext(path))
	var pal *decode.Palette
	if !format.HighColor() && format != decode.None {
		if pal, err = readPalette(); err != nil {
			return nil, err
		}
	}
	img, _, err := batch.Decode(raw, format, pal)
	if err == nil {
		return img, nil
	}

	fallback, name, ferr := image.Decode(bytes.NewReader(raw))
	if ferr != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("decoded with fallback codec", "path", path, "codec", name)
	return fallback, nil
}

func readPalette() (*decode.Palette, error) {
	p := filepath.Join(cfg.BaseDir, filepath.FromSlash(texture.PaletteFile))
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	rgb, err := decode.PCXPalette(raw)
	if err != nil {
		return nil, fmt.Errorf("palette: %s: %w", p, err)
	}
	return decode.NewPalette(rgb), nil
}
