package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file searched for by Find.
const FileName = ".pygate.yaml"

// Find locates the configuration file. An explicit path must exist; with
// no explicit path the search walks up from startDir, stopping at a .git
// boundary or the home directory. Not finding a file is not an error:
// the empty path selects the built-in defaults.
func Find(startDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %w", err)
		}
		return explicitPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		configPath := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		if currentDir == homeDir {
			break
		}

		gitPath := filepath.Join(currentDir, ".git")
		if _, err := os.Stat(gitPath); err == nil {
			break
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parentDir
	}

	return "", nil
}

// Load reads and validates a configuration file. Fields the file leaves
// out keep their defaults; lists the file does set replace the defaults
// wholesale.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading project config
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve finds and loads the configuration for a project directory,
// returning the built-in defaults and an empty path when no file exists.
func Resolve(projectDir, explicitPath string) (Config, string, error) {
	path, err := Find(projectDir, explicitPath)
	if err != nil {
		return Config{}, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

func (c Config) validate() error {
	if c.Manager.Command == "" {
		return errors.New("manager.command must not be empty")
	}
	if _, err := c.Manager.Min(); err != nil {
		return fmt.Errorf("manager.min_version: %w", err)
	}
	for i, chk := range c.Checks {
		if chk.Name == "" {
			return fmt.Errorf("checks[%d]: name must not be empty", i)
		}
		if len(chk.Command) == 0 {
			return fmt.Errorf("checks[%d] (%s): command must not be empty", i, chk.Name)
		}
		if chk.Assert != nil && chk.Assert.Path == "" {
			return fmt.Errorf("checks[%d] (%s): assert.path must not be empty", i, chk.Name)
		}
	}
	if c.Watch.Debounce.Duration < 0 {
		return errors.New("watch.debounce must not be negative")
	}
	return nil
}
