// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Drill    DrillConfig    `toml:"drill"`
}

// PracticeConfig maps settings shared by both game variants.
type PracticeConfig struct {
	Lesson     *string  `toml:"lesson"`
	Items      *int     `toml:"items"`
	Attempts   *int     `toml:"attempts"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
	WeakWindow *int     `toml:"weak-window"`
	Endpoint   *string  `toml:"endpoint"`
}

// DrillConfig maps compound-pipeline settings. Waits are duration strings
// ("4s", "1500ms").
type DrillConfig struct {
	Repetitions *int    `toml:"reps"`
	RecordWait  *string `toml:"record-wait"`
	ConfirmWait *string `toml:"confirm-wait"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
