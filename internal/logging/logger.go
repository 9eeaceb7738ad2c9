// Package logging builds the hclog loggers shared by the CLI and the image
// manager.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Environment variables read by NewLogger and ResolveLevel.
const (
	EnvLevel = "Q2IMG_LOG_LEVEL"
	EnvJSON  = "Q2IMG_JSON_LOG"
)

// DefaultLevel applies when nothing else names a level.
const DefaultLevel = "warn"

// ResolveLevel picks the log level: an explicit choice (a command-line
// flag) first, then Q2IMG_LOG_LEVEL, then the configured level, then
// DefaultLevel. Names hclog does not know are skipped.
func ResolveLevel(explicit, configured string) string {
	for _, level := range []string{explicit, os.Getenv(EnvLevel), configured} {
		if level != "" && hclog.LevelFromString(level) != hclog.NoLevel {
			return level
		}
	}
	return DefaultLevel
}

// NewLogger creates a named logger. The level goes through ResolveLevel as
// the explicit choice. Output defaults to stderr; Q2IMG_JSON_LOG=1 switches
// to JSON lines.
func NewLogger(name, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv(EnvJSON) == "1"
	if !jsonFormat {
		output = NewPrefixWriter("q2img ", output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(ResolveLevel(level, "")),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}
