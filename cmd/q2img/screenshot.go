package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"q2images/internal/screenshot"
	"q2images/internal/vfs"
)

var (
	screenshotCmd = newScreenshotCmd("screenshot [format]",
		"Take a screenshot in the configured format, or the one named",
		(*screenshot.Shooter).Screenshot)
	screenshotTGACmd = newScreenshotCmd("screenshottga [name]",
		"Take a TGA screenshot",
		(*screenshot.Shooter).ScreenshotTGA)
	screenshotJPGCmd = newScreenshotCmd("screenshotjpg [name] [quality]",
		"Take a JPEG screenshot",
		(*screenshot.Shooter).ScreenshotJPG)
	screenshotPNGCmd = newScreenshotCmd("screenshotpng [name] [compression]",
		"Take a PNG screenshot",
		(*screenshot.Shooter).ScreenshotPNG)
	screenshotWebPCmd = newScreenshotCmd("screenshotwebp [name]",
		"Take a lossless WebP screenshot",
		(*screenshot.Shooter).ScreenshotWebP)
)

// newScreenshotCmd wires one screenshot console command. Without a live
// renderer the frame comes from the image given with --from.
func newScreenshotCmd(use, short string, run func(*screenshot.Shooter, []string) (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

The frame is read from the --from image and written under screenshots/ in
the game directory. Without a name the first free quakeNNN slot is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			img, err := loadImage(from)
			if err != nil {
				return err
			}
			s := screenshot.New(vfs.NewDir(cfg.BaseDir), screenshot.ImageFrame{Image: img}, screenshot.Settings{
				Format:      cfg.ScreenshotFormat,
				Quality:     cfg.ScreenshotQuality,
				Compression: cfg.ScreenshotCompression,
			}, logger.Named("screenshot"))

			out, err := run(s, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().String("from", "", "image to capture (required)")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
