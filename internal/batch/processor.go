// Package batch converts a game asset tree to WebP in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"q2images/internal/decode"
	"q2images/internal/texture"
	"q2images/internal/vfs"
)

// ErrNoPalette is returned for paletted files when the tree has no
// colormap.
var ErrNoPalette = errors.New("batch: no palette for paletted image")

// Config holds all shared resources for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	// Thumbnail is the longest edge of the extra thumbnail written next to
	// each image. Zero disables thumbnails.
	Thumbnail int
	Workers   int
	Logger    hclog.Logger
	// Progress receives a status line every two seconds when set.
	Progress io.Writer
}

// Result holds the outcome of converting one file.
type Result struct {
	Source      string
	Format      decode.Format
	Width       int
	Height      int
	Transparent bool
	Image       string
	Thumbnail   string
	Success     bool
	Error       string
}

// Collect lists the files under root that some decoder claims, as sorted
// slash-separated relative paths.
func Collect(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || decode.ForExt(filepath.Ext(p)) == decode.None {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run converts every decodable file under cfg.InputDir. Per-file failures
// are recorded in the results; the returned error is set only when the scan
// fails or ctx is cancelled.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	files, err := Collect(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	in := vfs.NewDir(cfg.InputDir)
	out := vfs.NewDir(cfg.OutputDir)
	pal := loadPalette(in, cfg.Logger)

	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	done := make(chan struct{})
	if cfg.Progress != nil {
		start := time.Now()
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if p := processed.Load(); p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f files/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, name := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = convert(in, out, pal, name, cfg.Thumbnail)
			if !results[i].Success {
				cfg.Logger.Warn("couldn't convert image", "name", name, "error", results[i].Error)
			}
			processed.Add(1)
			return gctx.Err()
		})
	}
	err = g.Wait()
	close(done)
	if err == nil {
		err = ctx.Err()
	}

	if err != nil {
		return results, fmt.Errorf("batch: %w", err)
	}
	cfg.Logger.Info("batch finished", "files", total, "output", cfg.OutputDir)
	return results, nil
}

// loadPalette reads the colormap, returning nil when the tree has none.
func loadPalette(fsys vfs.FS, logger hclog.Logger) *decode.Palette {
	raw, err := fsys.LoadFile(texture.PaletteFile)
	if err != nil {
		logger.Debug("no palette, paletted images will be skipped", "error", err)
		return nil
	}
	defer fsys.FreeFile(raw)
	rgb, err := decode.PCXPalette(raw)
	if err != nil {
		logger.Warn("couldn't read palette", "error", err)
		return nil
	}
	return decode.NewPalette(rgb)
}

func convert(in vfs.FS, out vfs.Creator, pal *decode.Palette, name string, thumb int) Result {
	res := Result{Source: name, Format: decode.ForExt(path.Ext(name))}

	raw, err := in.LoadFile(name)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	img, buf, err := Decode(raw, res.Format, pal)
	in.FreeFile(raw)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Width, res.Height = buf.Width, buf.Height
	res.Transparent = buf.Transparent()

	base := strings.TrimSuffix(name, path.Ext(name))
	res.Image = base + ".webp"
	if err := writeWebP(out, res.Image, img); err != nil {
		res.Error = err.Error()
		return res
	}
	if thumb > 0 {
		res.Thumbnail = base + ".thumb.webp"
		small := imaging.Fit(img, thumb, thumb, imaging.Lanczos)
		if err := writeWebP(out, res.Thumbnail, small); err != nil {
			res.Error = err.Error()
			return res
		}
	}
	res.Success = true
	return res
}

// Decode runs the decoder for format over raw and returns an image that
// does not alias raw, along with the decoded buffer. Paletted buffers are
// expanded through pal.
func Decode(raw []byte, format decode.Format, pal *decode.Palette) (*image.NRGBA, *decode.Buffer, error) {
	if format < 0 || format >= decode.NumFormats {
		return nil, nil, fmt.Errorf("%w: %s", decode.ErrUnknownFormat, format)
	}
	buf, err := decode.Lookup(format).Decode(raw)
	if err != nil {
		return nil, nil, err
	}
	rgba := buf
	if buf.Indexed {
		if pal == nil {
			return nil, nil, ErrNoPalette
		}
		rgba = pal.Expand(buf)
	}
	pix := rgba.Pix[:rgba.Width*rgba.Height*4]
	if rgba.Borrowed() {
		pix = append([]byte(nil), pix...)
	}
	img := &image.NRGBA{
		Pix:    pix,
		Stride: rgba.Width * 4,
		Rect:   image.Rect(0, 0, rgba.Width, rgba.Height),
	}
	return img, buf, nil
}

func writeWebP(out vfs.Creator, name string, img image.Image) error {
	w, err := out.Create(name, false)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(w, img, nil); err != nil {
		w.Close()
		return fmt.Errorf("webp encode: %w", err)
	}
	return w.Close()
}
