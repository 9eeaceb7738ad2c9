package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"q2images/internal/batch"
	"q2images/internal/texture"
)

var imagelistCmd = &cobra.Command{
	Use:   "imagelist [name...]",
	Short: "Load images into the cache and list the slot table",
	Long: `imagelist registers each named image the way the game would (pics
relative to pics/, leading slash for full paths) and prints the cache.
With no names every decodable file under the game directory is loaded.`,
	RunE: runImagelist,
}

func init() {
	imagelistCmd.Flags().Bool("unused", false, "start a new registration sequence and free unused images before listing")
}

func runImagelist(cmd *cobra.Command, args []string) error {
	m, dir := newManager()
	defer m.Shutdown()

	names := args
	if len(names) == 0 {
		files, err := batch.Collect(dir.Root())
		if err != nil {
			return err
		}
		for _, f := range files {
			if f != texture.PaletteFile {
				names = append(names, "/"+f)
			}
		}
	}

	logger.Debug("registering images", "root", dir.Root(), "indexed", dir.Len(), "count", len(names))
	for _, name := range names {
		_, err := m.RegisterImage(name, typeFor(name), 0)
		if errors.Is(err, texture.ErrOutOfSlots) {
			logger.Warn("image cache is full", "capacity", m.Capacity())
			break
		}
		if err != nil && !texture.IsNotFound(err) {
			logger.Error("couldn't load image", "name", name, "error", err)
		}
	}

	if unused, _ := cmd.Flags().GetBool("unused"); unused {
		m.BeginRegistration()
		m.FreeUnused()
	}
	return m.List(os.Stdout)
}

// typeFor guesses how the game would use a file from its directory.
func typeFor(name string) texture.Type {
	name = strings.ToLower(strings.TrimLeft(name, `/\`))
	switch {
	case strings.HasPrefix(name, "textures/"):
		return texture.Wall
	case strings.HasPrefix(name, "models/") || strings.HasPrefix(name, "players/"):
		return texture.Skin
	case strings.HasPrefix(name, "sprites/"):
		return texture.Sprite
	case strings.HasPrefix(name, "env/"):
		return texture.Sky
	case strings.HasPrefix(name, "pics/conchars"):
		return texture.Font
	}
	return texture.Pic
}
