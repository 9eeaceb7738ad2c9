// Package screenshot implements the screenshot console commands on top of
// package encode.
package screenshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"q2images/internal/encode"
	"q2images/internal/vfs"
)

var (
	ErrSlotsFull = errors.New("all screenshot slots are full")
	ErrUsage     = errors.New("usage")
)

// Dir is where screenshots are written, relative to the game directory.
const Dir = "screenshots/"

// maxAuto is the number of quakeNNN names tried before giving up.
const maxAuto = 1000

// FrameSource reads back the current frame. bgr asks for blue-first
// channel order.
type FrameSource interface {
	ReadPixels(bgr bool) (*encode.Frame, error)
}

// Settings are the defaults used when a command omits its arguments.
type Settings struct {
	Format      string
	Quality     int
	Compression int
}

// DefaultSettings match a stock configuration.
var DefaultSettings = Settings{Format: "jpg", Quality: 100, Compression: 6}

// Shooter runs screenshot commands.
type Shooter struct {
	Settings Settings

	out    vfs.Creator
	src    FrameSource
	logger hclog.Logger
}

// New returns a Shooter writing through out.
func New(out vfs.Creator, src FrameSource, settings Settings, logger hclog.Logger) *Shooter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Shooter{Settings: settings, out: out, src: src, logger: logger}
}

func usage(cmd, args string) error {
	return fmt.Errorf("%w: %s %s", ErrUsage, cmd, args)
}

// Screenshot takes a screenshot in the configured format, or the one
// named by the optional argument. Only the first letter counts: j, p and
// w pick JPEG, PNG and WebP, anything else writes TGA.
func (s *Shooter) Screenshot(args []string) (string, error) {
	if len(args) > 1 {
		return "", usage("screenshot", "[format]")
	}
	format := s.Settings.Format
	if len(args) > 0 {
		format = args[0]
	}

	var letter byte
	if format != "" {
		letter = format[0]
	}
	switch letter {
	case 'j':
		return s.take("", "jpg", clampQuality(s.Settings.Quality))
	case 'p':
		return s.take("", "png", clampCompression(s.Settings.Compression))
	case 'w':
		return s.take("", "webp", 0)
	}
	return s.take("", "tga", 0)
}

// ScreenshotTGA writes a TGA, optionally under a given name.
func (s *Shooter) ScreenshotTGA(args []string) (string, error) {
	if len(args) > 1 {
		return "", usage("screenshottga", "[name]")
	}
	return s.take(arg(args, 0), "tga", 0)
}

// ScreenshotJPG writes a JPEG: [name] [quality].
func (s *Shooter) ScreenshotJPG(args []string) (string, error) {
	if len(args) > 2 {
		return "", usage("screenshotjpg", "[name] [quality]")
	}
	quality := s.Settings.Quality
	if len(args) > 1 {
		quality = atoi(args[1])
	}
	return s.take(arg(args, 0), "jpg", clampQuality(quality))
}

// ScreenshotPNG writes a PNG: [name] [compression].
func (s *Shooter) ScreenshotPNG(args []string) (string, error) {
	if len(args) > 2 {
		return "", usage("screenshotpng", "[name] [compression]")
	}
	compression := s.Settings.Compression
	if len(args) > 1 {
		compression = atoi(args[1])
	}
	return s.take(arg(args, 0), "png", clampCompression(compression))
}

// ScreenshotWebP writes a lossless WebP, optionally under a given name.
func (s *Shooter) ScreenshotWebP(args []string) (string, error) {
	if len(args) > 1 {
		return "", usage("screenshotwebp", "[name]")
	}
	return s.take(arg(args, 0), "webp", 0)
}

// take opens the output, reads the frame and encodes it. It returns the
// path written.
func (s *Shooter) take(name, ext string, param int) (string, error) {
	d, ok := encode.ForExt(ext)
	if !ok {
		return "", fmt.Errorf("screenshot: no %s encoder", ext)
	}

	out, w, err := s.create(name, ext)
	if err != nil {
		s.logger.Error("couldn't create screenshot", "error", err)
		return "", err
	}

	frame, err := s.src.ReadPixels(d.BGR)
	if err == nil {
		err = d.Encode(w, frame, param)
	}
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %w", encode.ErrWrite, cerr)
	}
	if err != nil {
		s.logger.Error("couldn't write screenshot", "path", out, "error", err)
		return out, fmt.Errorf("screenshot: %s: %w", out, err)
	}

	s.logger.Info("wrote screenshot", "path", out)
	return out, nil
}

// create opens the named file, or the first free quakeNNN name.
func (s *Shooter) create(name, ext string) (string, io.WriteCloser, error) {
	if name != "" {
		p := defaultExtension(vfs.Normalize(Dir+name), "."+ext)
		w, err := s.out.Create(p, false)
		if err != nil {
			return "", nil, fmt.Errorf("screenshot: %w", err)
		}
		return p, w, nil
	}

	for i := 0; i < maxAuto; i++ {
		p := fmt.Sprintf("%squake%03d.%s", Dir, i, ext)
		w, err := s.out.Create(p, true)
		if err == nil {
			return p, w, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", nil, fmt.Errorf("screenshot: couldn't exclusively open %s: %w", p, err)
		}
	}
	return "", nil, fmt.Errorf("screenshot: %w", ErrSlotsFull)
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// atoi yields 0 for anything that is not a number.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func clampQuality(q int) int     { return max(0, min(q, 100)) }
func clampCompression(c int) int { return max(0, min(c, 9)) }

func defaultExtension(name, ext string) string {
	if path.Ext(name) != "" {
		return name
	}
	return name + ext
}
