// Package config reads the editor's settings from command-line flags and
// environment variables. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/layer-editor/internal/raster"
)

// Environment variables read by Load.
const (
	EnvLogLevel  = "LAYER_EDITOR_LOG_LEVEL"
	EnvBlankSize = "LAYER_EDITOR_BLANK_SIZE"
)

// Mode selects the front-end.
type Mode string

const (
	ModeText   Mode = "text"
	ModeScript Mode = "script"
	ModeMCP    Mode = "mcp"
)

// ErrUsage reports invalid flags or environment values.
var ErrUsage = errors.New("invalid usage")

// Config holds the resolved settings.
type Config struct {
	Mode        Mode
	ScriptPath  string
	Debug       bool
	BlankWidth  int
	BlankHeight int
	LayerName   string
	// Seed seeds the mosaic random source; 0 picks a random seed.
	Seed uint64
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Mode:        ModeText,
		BlankWidth:  raster.DefaultBlankSize,
		BlankHeight: raster.DefaultBlankSize,
		LayerName:   "layer1",
	}
}

// Load parses args (without the program name) and overlays the
// environment read through getenv. Flag errors are written to output.
func Load(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	cfg := Default()

	if getenv(EnvLogLevel) == "debug" {
		cfg.Debug = true
	}
	if v := getenv(EnvBlankSize); v != "" {
		w, h, err := ParseSize(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvBlankSize, err)
		}
		cfg.BlankWidth, cfg.BlankHeight = w, h
	}

	fs := flag.NewFlagSet("layer-editor", flag.ContinueOnError)
	fs.SetOutput(output)
	mode := fs.String("mode", string(cfg.Mode), "front-end: text, script or mcp")
	fs.StringVar(&cfg.ScriptPath, "script", "", "run commands from this file (implies -mode script)")
	fs.BoolVar(&cfg.Debug, "v", cfg.Debug, "verbose logging")
	blank := fs.String("blank", "", "size of new layers as WxH (default 500x500)")
	fs.StringVar(&cfg.LayerName, "layer", cfg.LayerName, "name of the initial layer")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "mosaic random seed (0 = random)")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}

	cfg.Mode = Mode(*mode)
	if cfg.ScriptPath != "" {
		cfg.Mode = ModeScript
	}
	switch cfg.Mode {
	case ModeText, ModeMCP:
	case ModeScript:
		if cfg.ScriptPath == "" {
			return Config{}, fmt.Errorf("%w: -mode script needs -script", ErrUsage)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown mode %q", ErrUsage, *mode)
	}

	if *blank != "" {
		w, h, err := ParseSize(*blank)
		if err != nil {
			return Config{}, fmt.Errorf("-blank: %w", err)
		}
		cfg.BlankWidth, cfg.BlankHeight = w, h
	}
	if strings.TrimSpace(cfg.LayerName) == "" {
		return Config{}, fmt.Errorf("%w: -layer must not be empty", ErrUsage)
	}
	return cfg, nil
}

// ParseSize parses "WxH" with both sides positive.
func ParseSize(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if ok {
		width, err = strconv.Atoi(ws)
		if err == nil {
			height, err = strconv.Atoi(hs)
		}
	}
	if !ok || err != nil || width < 1 || height < 1 {
		return 0, 0, fmt.Errorf("%w: size %q is not WxH", ErrUsage, s)
	}
	return width, height, nil
}
