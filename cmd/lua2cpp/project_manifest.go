package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"lua2cpp/internal/convention"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Conventions map[string]convention.ModuleSetting `toml:"conventions"`
	Output      outputConfig                        `toml:"output"`
}

type outputConfig struct {
	Dir string `toml:"dir"`
}

func findLua2cppToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "lua2cpp.toml")
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

// loadProjectManifest ищет lua2cpp.toml от startDir вверх. Манифест
// необязателен: отсутствие не ошибка.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findLua2cppToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for module := range cfg.Conventions {
		if !meta.IsDefined("conventions", module, "style") {
			return projectConfig{}, fmt.Errorf("%s: missing [conventions.%s].style", path, module)
		}
		if strings.TrimSpace(cfg.Conventions[module].Style) == "" {
			return projectConfig{}, fmt.Errorf("%s: empty [conventions.%s].style", path, module)
		}
	}
	return cfg, nil
}
