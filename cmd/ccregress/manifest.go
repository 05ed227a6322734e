package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// defaultsManifest carries per-project defaults for the regress command.
// Every key is optional; explicitly set CLI flags always win.
type defaultsManifest struct {
	Path   string
	Root   string
	Config defaultsConfig
}

type defaultsConfig struct {
	Compiler  compilerConfig  `toml:"compiler"`
	Predicate predicateConfig `toml:"predicate"`
}

type compilerConfig struct {
	Path string `toml:"path"`
}

type predicateConfig struct {
	Template  string `toml:"template"`
	Separator string `toml:"separator"`
	Format    string `toml:"format"`
	Timeout   string `toml:"timeout"`
}

func findRegressToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "ccregress.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadDefaultsManifest(startDir string) (*defaultsManifest, bool, error) {
	manifestPath, ok, err := findRegressToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadDefaultsConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &defaultsManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadDefaultsConfig(path string) (defaultsConfig, error) {
	var cfg defaultsConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return defaultsConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return defaultsConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Predicate.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Predicate.Timeout); err != nil {
			return defaultsConfig{}, fmt.Errorf("%s: [predicate].timeout: %w", path, err)
		}
	}
	return cfg, nil
}

// manifestTimeout parses the manifest's timeout, which loadDefaultsConfig
// has already validated.
func (m *defaultsManifest) manifestTimeout() time.Duration {
	if m == nil || m.Config.Predicate.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(m.Config.Predicate.Timeout)
	if err != nil {
		return 0
	}
	return d
}
