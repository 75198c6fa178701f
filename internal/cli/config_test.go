package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tilemeter/tilemeter/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tilemeter.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if !cfg.BorderFirst {
		t.Error("border-first should default to true")
	}
	if cfg.FIFO != "" || cfg.HTTP != "" || cfg.Seed != 0 {
		t.Errorf("unexpected non-zero defaults: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
fifo = "/tmp/progress.fifo"
border_first = false
seed = 7
http = ":8080"

[colors]
start_fill = "#336699"
done_stroke = "#FFF"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.FIFO != "/tmp/progress.fifo" {
		t.Errorf("FIFO = %q", cfg.FIFO)
	}
	if cfg.BorderFirst {
		t.Error("border_first should be false")
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.HTTP != ":8080" {
		t.Errorf("HTTP = %q", cfg.HTTP)
	}
	if cfg.Colors.StartFill != "#336699" {
		t.Errorf("StartFill = %q", cfg.Colors.StartFill)
	}
	if cfg.Colors.DoneStroke != "#FFF" {
		t.Errorf("DoneStroke = %q", cfg.Colors.DoneStroke)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := writeConfig(t, "fifo = [broken")
	_, err := loadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
fifo = "/from/file"

[colors]
start_fill = "#111111"
`)
	t.Setenv(envFIFO, "/from/env")
	t.Setenv(envStartFill, "#222222")
	t.Setenv(envDoneFill, "#333333")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.FIFO != "/from/env" {
		t.Errorf("FIFO = %q, env should win over file", cfg.FIFO)
	}
	if cfg.Colors.StartFill != "#222222" {
		t.Errorf("StartFill = %q, env should win over file", cfg.Colors.StartFill)
	}
	if cfg.Colors.DoneFill != "#333333" {
		t.Errorf("DoneFill = %q", cfg.Colors.DoneFill)
	}
}

func TestProcessDefaults(t *testing.T) {
	cc := ColorConfig{StartFill: "#FF0000", DoneFill: "#00A933"}

	d, err := cc.ProcessDefaults()
	if err != nil {
		t.Fatalf("ProcessDefaults() error: %v", err)
	}
	if d.StartFill == nil || d.StartFill.Hex() != "#FF0000" {
		t.Errorf("StartFill = %v", d.StartFill)
	}
	if d.DoneFill == nil || d.DoneFill.Hex() != "#00A933" {
		t.Errorf("DoneFill = %v", d.DoneFill)
	}
	if d.StartStroke != nil || d.DoneStroke != nil {
		t.Error("unset slots should stay nil")
	}
}

func TestProcessDefaultsBadColor(t *testing.T) {
	cc := ColorConfig{DoneStroke: "not-a-color"}

	_, err := cc.ProcessDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("error = %v, want INVALID_COLOR", err)
	}
	if !errors.Fatal(err) {
		t.Error("bad color should be a fatal load-time error")
	}
}
