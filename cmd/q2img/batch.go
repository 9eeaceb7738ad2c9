package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"q2images/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Convert every image under a directory to WebP",
	Long: `batch decodes every PCX, WAL, TGA, JPEG, PNG and WebP file under the
directory (the game directory by default) and writes a WebP copy, an
optional thumbnail and manifest.json to the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	flags := batchCmd.Flags()
	flags.String("output", "", "output directory (default <base-dir>/converted)")
	flags.Int("workers", 0, "parallel workers (default: CPU count)")
	flags.Int("thumbnail", 0, "also write thumbnails fitting this size")
	flags.Bool("progress", true, "print progress while running")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := cfg.BaseDir
	if len(args) > 0 {
		input = args[0]
	}
	thumb, _ := cmd.Flags().GetInt("thumbnail")
	progress, _ := cmd.Flags().GetBool("progress")

	bc := batch.Config{
		InputDir:  input,
		OutputDir: cfg.OutputDir,
		Thumbnail: thumb,
		Workers:   cfg.Workers,
		Logger:    logger.Named("batch"),
	}
	if progress {
		bc.Progress = cmd.OutOrStdout()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converting %s -> %s (%d workers)\n", input, cfg.OutputDir, cfg.Workers)
	results, err := batch.Run(cmd.Context(), bc)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: %s\n", r.Source, r.Error)
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}
	manifest := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifest, results); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}

	bold := color.New(color.Bold)
	bold.Fprintf(cmd.OutOrStdout(), "Converted %d of %d files", len(results)-failed, len(results))
	fmt.Fprintln(cmd.OutOrStdout())
	if failed > 0 {
		color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "%d failed\n", failed)
	}
	return nil
}
