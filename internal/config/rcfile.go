package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath is the environment variable that overrides the rc file
// location, mirroring the teacher's GOGREP_CONFIG_PATH.
const EnvConfigPath = "GOGREP_CONFIG_PATH"

// rcFile mirrors the subset of Config that makes sense as a persisted
// default, grouped into TOML sections. Pointer fields distinguish
// "not set in the file" from the type's zero value, so LoadDefaults
// only overrides what the file actually specifies.
type rcFile struct {
	Search struct {
		IgnoreCase     *bool   `toml:"ignore_case"`
		SmartCase      *bool   `toml:"smart_case"`
		Recursive      *bool   `toml:"recursive"`
		Hidden         *bool   `toml:"hidden"`
		FollowSymlinks *bool   `toml:"follow_symlinks"`
		OneDev         *bool   `toml:"one_dev"`
		NoIgnore       *bool   `toml:"no_ignore"`
		MaxDepth       *int    `toml:"max_search_depth"`
		Workers        *int    `toml:"workers"`
		MmapThreshold  *int64  `toml:"mmap_threshold"`
		AgignorePath   *string `toml:"path_to_agignore"`
	} `toml:"search"`

	Output struct {
		LineNumbers *bool `toml:"line_numbers"`
		PrintBreak  *bool `toml:"print_break"`
		Column      *bool `toml:"column"`
		Width       *int  `toml:"width"`
		Stats       *bool `toml:"stats"`
	} `toml:"output"`

	Color struct {
		Mode *string `toml:"mode"` // "auto", "always", "never"
	} `toml:"color"`
}

// DefaultPath resolves the rc file location: EnvConfigPath if set,
// otherwise ~/.axgreprc.toml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".axgreprc.toml")
}

// LoadDefaults starts from Default() and overlays whatever the rc file
// at DefaultPath() specifies. A missing file is not an error — it just
// means the baked-in defaults stand.
func LoadDefaults() Config {
	cfg := Default()
	path := DefaultPath()
	if path == "" {
		return cfg
	}
	if _, err := os.Stat(path); err != nil {
		return cfg
	}

	var rc rcFile
	if _, err := toml.DecodeFile(path, &rc); err != nil {
		return cfg
	}
	applyRC(&cfg, &rc)
	return cfg
}

func applyRC(cfg *Config, rc *rcFile) {
	s := rc.Search
	if s.IgnoreCase != nil {
		cfg.IgnoreCase = *s.IgnoreCase
	}
	if s.SmartCase != nil {
		cfg.SmartCase = *s.SmartCase
	}
	if s.Recursive != nil {
		cfg.Recursive = *s.Recursive
	}
	if s.Hidden != nil {
		cfg.Hidden = *s.Hidden
	}
	if s.FollowSymlinks != nil {
		cfg.FollowSymlinks = *s.FollowSymlinks
	}
	if s.OneDev != nil {
		cfg.OneDev = *s.OneDev
	}
	if s.NoIgnore != nil {
		cfg.NoIgnore = *s.NoIgnore
	}
	if s.MaxDepth != nil {
		cfg.MaxDepth = *s.MaxDepth
	}
	if s.Workers != nil {
		cfg.Workers = *s.Workers
	}
	if s.MmapThreshold != nil {
		cfg.MmapThreshold = *s.MmapThreshold
	}
	if s.AgignorePath != nil {
		cfg.AgignorePath = *s.AgignorePath
	}

	o := rc.Output
	if o.LineNumbers != nil {
		cfg.LineNumbers = *o.LineNumbers
	}
	if o.PrintBreak != nil {
		cfg.PrintBreak = *o.PrintBreak
	}
	if o.Column != nil {
		cfg.Column = *o.Column
	}
	if o.Stats != nil {
		cfg.Stats = *o.Stats
	}
	if o.Width != nil {
		cfg.Width = *o.Width
	}

	if rc.Color.Mode != nil {
		switch *rc.Color.Mode {
		case "always":
			cfg.Color = ColorAlways
		case "never":
			cfg.Color = ColorNever
		default:
			cfg.Color = ColorAuto
		}
	}
}
