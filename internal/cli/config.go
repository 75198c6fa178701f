package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tilemeter/tilemeter/pkg/errors"
	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// Environment variables recognized by every command. They sit between the
// config file and command-line flags in precedence: file < environment < flag.
const (
	envFIFO        = "TILEMETER_FIFO"
	envStartFill   = "TILEMETER_START_FILL_COLOR"
	envStartStroke = "TILEMETER_START_STROKE_COLOR"
	envDoneFill    = "TILEMETER_DONE_FILL_COLOR"
	envDoneStroke  = "TILEMETER_DONE_STROKE_COLOR"
)

// Config holds the process-level settings shared by the show and export
// commands: where the progress FIFO lives, how the visitation order is
// planned, and the process-layer default colors.
type Config struct {
	FIFO        string      `toml:"fifo"`
	BorderFirst bool        `toml:"border_first"`
	Seed        uint64      `toml:"seed"`
	HTTP        string      `toml:"http"`
	Colors      ColorConfig `toml:"colors"`
}

// ColorConfig carries the four process-level default color slots as hex
// strings. Empty slots fall through to the builtin defaults during color
// resolution.
type ColorConfig struct {
	StartFill   string `toml:"start_fill"`
	StartStroke string `toml:"start_stroke"`
	DoneFill    string `toml:"done_fill"`
	DoneStroke  string `toml:"done_stroke"`
}

// defaultConfig returns the configuration used when no file, environment
// variable, or flag says otherwise.
func defaultConfig() Config {
	return Config{BorderFirst: true}
}

// loadConfig resolves the effective configuration: defaults, then the TOML
// file at path (if path is non-empty), then environment overrides. Flag
// overrides are applied by the individual commands, which know which flags
// the user actually set.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", path)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays the TILEMETER_* environment variables onto cfg.
// Unset variables leave the existing values untouched.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envFIFO); ok {
		cfg.FIFO = v
	}
	if v, ok := os.LookupEnv(envStartFill); ok {
		cfg.Colors.StartFill = v
	}
	if v, ok := os.LookupEnv(envStartStroke); ok {
		cfg.Colors.StartStroke = v
	}
	if v, ok := os.LookupEnv(envDoneFill); ok {
		cfg.Colors.DoneFill = v
	}
	if v, ok := os.LookupEnv(envDoneStroke); ok {
		cfg.Colors.DoneStroke = v
	}
}

// ProcessDefaults parses the configured color slots into the process layer
// of the color resolution chain. A malformed hex string is a fatal
// configuration error, surfaced before any board appears.
func (c ColorConfig) ProcessDefaults() (tiling.Defaults, error) {
	var d tiling.Defaults
	slots := []struct {
		name string
		hex  string
		dst  **tiling.Color
	}{
		{"start_fill", c.StartFill, &d.StartFill},
		{"start_stroke", c.StartStroke, &d.StartStroke},
		{"done_fill", c.DoneFill, &d.DoneFill},
		{"done_stroke", c.DoneStroke, &d.DoneStroke},
	}
	for _, s := range slots {
		if s.hex == "" {
			continue
		}
		col, err := tiling.ParseHex(s.hex)
		if err != nil {
			return tiling.Defaults{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "color slot %s", s.name)
		}
		*s.dst = &col
	}
	return d, nil
}
