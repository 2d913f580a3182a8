package gitdownload

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	log "github.com/rs/zerolog/log"
)

// DefaultConfigPath is consulted when no explicit config path is given.
const DefaultConfigPath = "config.json"

// Config is the effective configuration for one run. It is built once by
// Load and immutable afterwards.
type Config struct {
	DefaultBranch  string   `koanf:"default_branch"`
	Extensions     []string `koanf:"extensions"`
	SkipFolders    []string `koanf:"skip_folders"`
	SkipFiles      []string `koanf:"skip_files"`
	DownloadFolder string   `koanf:"download_folder"`
	MaxFileSizeMB  float64  `koanf:"max_file_size_mb"`

	// Set from flags only, never from the config file.
	IncludeBinary bool `koanf:"-"`
	ShowStats     bool `koanf:"-"`
}

// Overrides carries CLI values applied after the config file, always
// winning. Zero values mean "not set", except ExcludeFolders which is
// unioned into SkipFolders.
type Overrides struct {
	Branch         string
	ExcludeFolders []string
	MaxFileSizeMB  float64
	IncludeBinary  bool
	ShowStats      bool
}

// ConfigParseError reports a config file that exists but is not valid
// JSON. It is fatal to the run rather than silently ignored, since a
// malformed explicit config likely indicates user error.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("failed to parse config file %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultBranch: "main",
		Extensions: []string{
			".py", ".js", ".ts", ".jsx", ".tsx",
			".java", ".c", ".cpp", ".cs", ".rb",
			".go", ".php", ".html", ".css", ".scss",
			".json", ".md", ".yml", ".yaml",
		},
		SkipFolders: []string{
			".git",
			".github",
			"node_modules",
			"dist",
			"build",
			"__pycache__",
			".venv",
		},
		SkipFiles: []string{
			"LICENSE",
			"LICENSE.txt",
			"LICENSE.md",
			"LICENSE.rst",
			"COPYING",
			"COPYING.txt",
		},
		DownloadFolder: "repos",
		MaxFileSizeMB:  10.0,
	}
}

// Load produces the effective configuration: built-in defaults, then the
// config file if one exists, then the CLI overrides. A missing file is
// not an error; a malformed one is a ConfigParseError.
func Load(path string, ov Overrides) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		k := koanf.New(".")
		if err := k.Load(rawbytes.Provider(data), json.Parser()); err != nil {
			return nil, &ConfigParseError{Path: path, Err: err}
		}
		// Unmarshal over the populated defaults: fields absent from the
		// file keep their default values, unknown keys are ignored.
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, &ConfigParseError{Path: path, Err: err}
		}
		log.Debug().Str("path", path).Msg("loaded config file")
	case os.IsNotExist(err):
		if explicit {
			log.Warn().Str("path", path).Msg("config file not found, using defaults")
		}
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if ov.Branch != "" {
		cfg.DefaultBranch = ov.Branch
	}
	cfg.SkipFolders = append(cfg.SkipFolders, ov.ExcludeFolders...)
	if ov.MaxFileSizeMB > 0 {
		cfg.MaxFileSizeMB = ov.MaxFileSizeMB
	}
	cfg.IncludeBinary = ov.IncludeBinary
	cfg.ShowStats = ov.ShowStats

	normalizeExtensions(cfg)
	return cfg, nil
}

// normalizeExtensions lowercases entries and ensures a leading dot, so
// config values like "PY" or "go" match filepath.Ext output.
func normalizeExtensions(cfg *Config) {
	for i, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Extensions[i] = ext
	}
}

// SkipsFolder reports whether a folder name is on the skip list.
func (c *Config) SkipsFolder(name string) bool {
	for _, f := range c.SkipFolders {
		if strings.Trim(f, "/") == name {
			return true
		}
	}
	return false
}

// SkipsFile reports whether an exact file name is on the skip list.
func (c *Config) SkipsFile(name string) bool {
	for _, f := range c.SkipFiles {
		if f == name {
			return true
		}
	}
	return false
}

// AllowsExtension reports whether ext passes the allow-list. An empty
// list admits every extension.
func (c *Config) AllowsExtension(ext string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// MaxFileBytes is the size limit in bytes.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.MaxFileSizeMB * 1024 * 1024)
}
