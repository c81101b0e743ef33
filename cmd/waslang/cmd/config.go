package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// config mirrors waslang.yaml (see SPEC_FULL.md "Configuration"). Every
// field has a compiled-in default; the file itself is optional, and any
// field it omits falls back to that default.
type config struct {
	Output       string `yaml:"output"`
	ReportFormat string `yaml:"reportFormat"`
	Color        string `yaml:"color"`
	MemoryPages  int    `yaml:"memoryPages"`
}

func defaultConfig() config {
	return config{
		Output:       "out.wasm",
		ReportFormat: "text",
		Color:        "auto",
		MemoryPages:  1,
	}
}

// loadConfig reads waslang.yaml from the current directory, if present,
// overlaying its fields onto the compiled-in defaults. A missing file is
// not an error (the teacher's convention of "sane defaults, nothing
// required"); a malformed one is.
func loadConfig() (config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile("waslang.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// colorEnabled resolves the config's "auto | always | never" color setting.
// The teacher's stack carries no isatty dependency, so "auto" follows the
// NO_COLOR convention (https://no-color.org) instead of probing the
// terminal directly.
func colorEnabled(setting string) bool {
	switch setting {
	case "always":
		return true
	case "never":
		return false
	default:
		return os.Getenv("NO_COLOR") == ""
	}
}
