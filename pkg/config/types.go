// Package config loads the .pygate.yaml project file that declares which
// manager, tools and checks a run uses. A missing file is not an error:
// Default describes a standard Poetry project.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/vertti/pygate/pkg/pyver"
)

// Duration wraps time.Duration to allow YAML unmarshalling from strings.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		raw := strings.TrimSpace(value.Value)
		if raw == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("duration must be a string, got %s", value.ShortTag())
	}
}

// Config is the root configuration.
type Config struct {
	Manager Manager  `yaml:"manager"`
	Tools   []string `yaml:"tools"`
	Checks  []Check  `yaml:"checks"`
	Watch   Watch    `yaml:"watch"`
}

// Manager describes the package manager that provisions the environment.
type Manager struct {
	Command      string `yaml:"command"`       // manager binary, e.g. "poetry"
	Python       string `yaml:"python"`        // interpreter passed to `env use`
	InstallerURL string `yaml:"installer_url"` // where to download the installer script
	MinVersion   string `yaml:"min_version"`   // warn when the installed manager is older
}

// Min parses the configured minimum manager version. Nil means no
// constraint.
func (m Manager) Min() (*semver.Version, error) {
	return pyver.ParseOptional(m.MinVersion)
}

// Check is one named command run against the project.
type Check struct {
	Name    string   `yaml:"name"`
	Command []string `yaml:"command"`
	Assert  *Assert  `yaml:"assert"`
}

// Assert verifies a value inside a check's JSON stdout.
type Assert struct {
	Path   string `yaml:"path"`
	Equals string `yaml:"equals"`
}

// Watch tunes the file watcher used by `pygate watch`.
type Watch struct {
	Debounce Duration `yaml:"debounce"`
	Ignore   []string `yaml:"ignore"`
}

// Default returns the built-in configuration: a Poetry-managed project
// checked with ruff, mypy, black, bandit and pydocstyle.
func Default() Config {
	return Config{
		Manager: Manager{
			Command:      "poetry",
			Python:       "python",
			InstallerURL: "https://install.python-poetry.org",
			MinVersion:   "1.2.0",
		},
		Tools: []string{"black", "mypy", "ruff", "bandit", "pydocstyle"},
		Checks: []Check{
			{Name: "Lint Checking", Command: []string{"ruff", "check", "."}},
			{Name: "Type Checking", Command: []string{"mypy", "."}},
			{Name: "Formatting with Black", Command: []string{"black", "."}},
			{Name: "Security Check with Bandit", Command: []string{"bandit", "-r", "."}},
			{Name: "Docstring Check with Pydocstyle", Command: []string{"pydocstyle", "."}},
		},
		Watch: Watch{
			Debounce: Duration{500 * time.Millisecond},
		},
	}
}
