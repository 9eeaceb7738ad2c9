package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked for in the working directory.
const FileName = "q2img.toml"

// Renderers accepted by the renderer setting.
const (
	RendererGL   = "gl"
	RendererSoft = "soft"
)

// Config holds game paths, image manager and screenshot settings.
type Config struct {
	// Paths
	BaseDir   string `toml:"base_dir"`
	OutputDir string `toml:"output_dir"`

	// Image manager
	TextureFormats   string `toml:"texture_formats"`
	OverrideTextures bool   `toml:"override_textures"`
	MaxImages        int    `toml:"max_images"`
	Renderer         string `toml:"renderer"`

	// Screenshots
	ScreenshotFormat      string `toml:"screenshot_format"`
	ScreenshotQuality     int    `toml:"screenshot_quality"`
	ScreenshotCompression int    `toml:"screenshot_compression"`

	LogLevel string `toml:"log_level"`
	Workers  int    `toml:"workers"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		TextureFormats:        "pjt",
		OverrideTextures:      true,
		MaxImages:             1024,
		Renderer:              RendererGL,
		ScreenshotFormat:      "jpg",
		ScreenshotQuality:     100,
		ScreenshotCompression: 6,
	}
}

// Load reads a TOML config file on top of Default. Keys the file leaves
// out keep their defaults; unknown keys are an error. A relative base_dir
// is taken relative to the file.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("base_dir") && cfg.BaseDir != "" && !filepath.IsAbs(cfg.BaseDir) {
		cfg.BaseDir = filepath.Join(filepath.Dir(path), cfg.BaseDir)
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists and returns Default otherwise.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Flags holds CLI flag values that override config file settings. Nil
// pointers and empty strings mean the flag was not given.
type Flags struct {
	DataDir   string
	OutputDir string
	Formats   *string
	Override  *bool
	Renderer  string
	LogLevel  string
	Workers   int
}

// Resolve applies flags and fills in anything still unset.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.DataDir != "" {
		c.BaseDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Formats != nil {
		c.TextureFormats = *flags.Formats
	}
	if flags.Override != nil {
		c.OverrideTextures = *flags.Override
	}
	if flags.Renderer != "" {
		c.Renderer = flags.Renderer
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Auto-detect base dir if still empty
	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.BaseDir, "converted")
	} else if !filepath.IsAbs(c.OutputDir) && c.BaseDir != "" {
		c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
	}

	if c.MaxImages <= 1 {
		c.MaxImages = 1024
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	c.ScreenshotQuality = max(0, min(c.ScreenshotQuality, 100))
	c.ScreenshotCompression = max(0, min(c.ScreenshotCompression, 9))
	c.Renderer = strings.ToLower(c.Renderer)
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	switch c.Renderer {
	case RendererGL, RendererSoft:
	default:
		return fmt.Errorf("config: renderer %q: want %q or %q", c.Renderer, RendererGL, RendererSoft)
	}
	if c.ScreenshotFormat == "" {
		return fmt.Errorf("config: screenshot_format is empty")
	}
	return nil
}

// detectBaseDir looks for a game directory holding the palette next to
// the executable or the working directory.
func detectBaseDir() string {
	var roots []string
	if exe, _ := os.Executable(); exe != "" {
		dir := filepath.Dir(exe)
		roots = append(roots, dir, filepath.Dir(dir))
	}
	if cwd, _ := os.Getwd(); cwd != "" {
		roots = append(roots, cwd, filepath.Dir(cwd))
	}

	for _, root := range roots {
		for _, base := range []string{root, filepath.Join(root, "baseq2")} {
			if _, err := os.Stat(filepath.Join(base, "pics", "colormap.pcx")); err == nil {
				return base
			}
		}
	}
	return "."
}
