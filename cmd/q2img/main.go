package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "q2img",
	Short: "Quake II image resource tools",
	Long: `q2img loads, lists and converts Quake II image resources (PCX, WAL,
TGA, JPEG, PNG, WebP) and writes screenshots in TGA, JPEG, PNG or WebP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	rootCmd.AddCommand(imagelistCmd)
	rootCmd.AddCommand(screenshotCmd)
	rootCmd.AddCommand(screenshotTGACmd)
	rootCmd.AddCommand(screenshotJPGCmd)
	rootCmd.AddCommand(screenshotPNGCmd)
	rootCmd.AddCommand(screenshotWebPCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(batchCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "q2img.toml", "config file (ignored when missing)")
	flags.String("base-dir", "", "game directory, e.g. ~/quake2/baseq2")
	flags.String("formats", "", "high-color search order, e.g. pjt")
	flags.Bool("override", true, "prefer high-color replacements over paletted originals")
	flags.String("renderer", "", "upload path: gl or soft")
	flags.String("log-level", "", "trace, debug, info, warn or error")
	flags.String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
