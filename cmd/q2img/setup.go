package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"q2images/internal/config"
	"q2images/internal/logging"
	"q2images/internal/texture"
	"q2images/internal/upload"
	"q2images/internal/vfs"
)

// Resolved once per invocation by setup.
var (
	cfg    config.Config
	logger hclog.Logger
)

// setup loads the config file, applies flag overrides and builds the
// logger before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	loaded, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}

	var f config.Flags
	f.DataDir, _ = flags.GetString("base-dir")
	f.Renderer, _ = flags.GetString("renderer")
	f.LogLevel, _ = flags.GetString("log-level")
	if flags.Changed("formats") {
		s, _ := flags.GetString("formats")
		f.Formats = &s
	}
	if flags.Changed("override") {
		b, _ := flags.GetBool("override")
		f.Override = &b
	}
	if flags.Changed("output") {
		out, _ := flags.GetString("output")
		if f.OutputDir, err = filepath.Abs(out); err != nil {
			return err
		}
	}
	if flags.Lookup("workers") != nil {
		f.Workers, _ = flags.GetInt("workers")
	}

	loaded.Resolve(f)
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	flagLevel, _ := flags.GetString("log-level")
	logger = logging.NewLogger("q2img", logging.ResolveLevel(flagLevel, cfg.LogLevel), os.Stderr)

	mode, _ := flags.GetString("color")
	color.NoColor = !(mode == "on" || (mode == "auto" && isTerminal(os.Stdout)))

	logger.Debug("configuration resolved", "base_dir", cfg.BaseDir, "formats", cfg.TextureFormats,
		"override", cfg.OverrideTextures, "renderer", cfg.Renderer)
	return nil
}

// newUploader picks the renderer-side collaborator named by the config.
func newUploader() texture.Uploader {
	if cfg.Renderer == config.RendererSoft {
		return &upload.Soft{}
	}
	return upload.NewGL(logger.Named("gl"))
}

// newManager builds an image manager over the game directory.
func newManager() (*texture.Manager, *vfs.Dir) {
	dir := vfs.NewDir(cfg.BaseDir)
	m := texture.New(texture.Options{
		FS:        dir,
		Uploader:  newUploader(),
		Logger:    logger.Named("images"),
		MaxImages: cfg.MaxImages,
		Formats:   cfg.TextureFormats,
		Override:  cfg.OverrideTextures,
		Fatal: func(err error) {
			logger.Error("fatal", "error", err)
			fmt.Fprintln(os.Stderr, "q2img:", err)
			os.Exit(1)
		},
	})
	return m, dir
}
