package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configDirName is the directory under the user config dir holding marketctl
// state.
const configDirName = "marketctl"

// contextsFileName is the contexts file inside the config directory.
const contextsFileName = "contexts.yaml"

// ContextsPath returns the path of the contexts file. The MARKETCTL_CONFIG_DIR
// environment variable overrides the default location, which tests rely on.
func ContextsPath() string {
	if dir := os.Getenv("MARKETCTL_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, contextsFileName)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, configDirName, contextsFileName)
}

// Load reads the contexts file. A missing file yields an empty File, not an
// error.
func Load() (*File, error) {
	return LoadPath(ContextsPath())
}

// LoadPath reads a contexts file from a specific location.
func LoadPath(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{Contexts: map[string]*Context{}}, nil
		}
		return nil, fmt.Errorf("read contexts file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Contexts == nil {
		f.Contexts = map[string]*Context{}
	}
	return &f, nil
}

// Save writes the contexts file, creating the directory as needed. The file
// is written 0600 since it can hold auth tokens.
func Save(f *File) error {
	return SavePath(ContextsPath(), f)
}

// SavePath writes a contexts file to a specific location.
func SavePath(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode contexts: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write contexts file: %w", err)
	}
	return nil
}
