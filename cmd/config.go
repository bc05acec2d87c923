package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/leonardinius/treewalk/internal/interpreter"
)

// Config is the optional YAML file passed with -config.
type Config struct {
	Profile     string `yaml:"profile"`
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

var ErrConfigUnknownProfile = errors.New("config: unknown profile")

func DefaultConfig() Config {
	return Config{
		Profile: string(interpreter.ProfileDefault),
		Prompt:  "> ",
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return config, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	return config, config.validate()
}

func (c Config) validate() error {
	switch interpreter.Profile(c.Profile) {
	case interpreter.ProfileDefault, interpreter.ProfileStrict, interpreter.ProfileNonStrict:
		return nil
	}
	return fmt.Errorf("%w %q", ErrConfigUnknownProfile, c.Profile)
}
