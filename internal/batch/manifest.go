package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one converted file in the output manifest.
type ManifestEntry struct {
	Source      string `json:"source"`
	Format      string `json:"format"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Transparent bool   `json:"transparent,omitempty"`
	Image       string `json:"image"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Manifest builds entries for the successful results, in input order.
func Manifest(results []Result) []ManifestEntry {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Source:      r.Source,
			Format:      r.Format.String(),
			Width:       r.Width,
			Height:      r.Height,
			Transparent: r.Transparent,
			Image:       r.Image,
			Thumbnail:   r.Thumbnail,
		})
	}
	return entries
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(Manifest(results), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
