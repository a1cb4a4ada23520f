// Package envman provisions the Python tool environment through a
// package manager such as Poetry: installing the manager itself,
// creating the virtual environment, and installing the checking tools
// as dev dependencies.
package envman

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"

	"github.com/vertti/pygate/pkg/cmdrun"
	"github.com/vertti/pygate/pkg/pyver"
)

// InstallerPython is the interpreter used to run the downloaded
// installer script. It is distinct from Manager.Python, which names the
// interpreter the virtual environment is created for.
const InstallerPython = "python3"

// HTTPClient is the subset of http.Client used to download the
// installer, injected for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Manager drives a Python package manager. All manager commands run
// inside the project directory they provision.
type Manager struct {
	Command      string        // manager binary, e.g. "poetry"
	Python       string        // interpreter passed to `env use`
	EnvDir       string        // where virtual environments live, empty for the manager default
	InstallerURL string        // installer script location
	Exec         cmdrun.Runner // injected for testing
	HTTP         HTTPClient    // injected for testing, nil means http.DefaultClient
	Console      io.Writer     // progress messages, nil means os.Stdout
}

// IsInstalled reports whether the manager binary is on PATH.
func (m *Manager) IsInstalled() bool {
	_, err := m.Exec.LookPath(m.Command)
	return err == nil
}

// Version asks the manager for its version and extracts it from the
// banner output.
func (m *Manager) Version(ctx context.Context) (*semver.Version, error) {
	stdout, stderr, err := m.run(ctx, "", "--version")
	if err != nil {
		return nil, fmt.Errorf("running %s --version: %w", m.Command, err)
	}
	output := stdout
	if output == "" {
		output = stderr
	}
	return pyver.Extract(output)
}

// UseEnv creates (or reuses) the project's virtual environment for the
// configured interpreter.
func (m *Manager) UseEnv(ctx context.Context, projectDir string) error {
	fmt.Fprintf(m.console(), "Creating virtual environment with %s...\n", m.title())
	_, stderr, err := m.run(ctx, projectDir, "env", "use", m.Python)
	if err != nil {
		return wrapRunErr(fmt.Sprintf("creating virtual environment with %s", m.Command), stderr, err)
	}
	return nil
}

// HasTool reports whether the tool is already a dependency of the
// project. A non-zero exit from `show` means it is not; any other
// failure is an error.
func (m *Manager) HasTool(ctx context.Context, projectDir, tool string) (bool, error) {
	_, _, err := m.run(ctx, projectDir, "show", tool)
	if err != nil {
		var exitErr *cmdrun.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddTool installs a tool into the project's dev dependency group.
func (m *Manager) AddTool(ctx context.Context, projectDir, tool string) error {
	_, stderr, err := m.run(ctx, projectDir, "add", "--group", "dev", tool)
	if err != nil {
		return wrapRunErr(fmt.Sprintf("adding %s", tool), stderr, err)
	}
	return nil
}

// EnsureTools checks each tool and installs the missing ones. It
// returns the names of the tools it actually installed, in order.
func (m *Manager) EnsureTools(ctx context.Context, projectDir string, tools []string) ([]string, error) {
	var installed []string
	for _, tool := range tools {
		fmt.Fprintf(m.console(), "Checking if %s is installed...\n", tool)

		have, err := m.HasTool(ctx, projectDir, tool)
		if err != nil {
			return installed, fmt.Errorf("checking %s: %w", tool, err)
		}
		if have {
			fmt.Fprintf(m.console(), "%s is already installed.\n", tool)
			continue
		}

		fmt.Fprintf(m.console(), "%s is not installed. Installing %s...\n", tool, tool)
		if err := m.AddTool(ctx, projectDir, tool); err != nil {
			return installed, err
		}
		installed = append(installed, tool)
	}
	return installed, nil
}

// InstallDeps installs the project's declared dependencies.
func (m *Manager) InstallDeps(ctx context.Context, projectDir string) error {
	fmt.Fprintf(m.console(), "Installing project dependencies using %s...\n", m.title())
	_, stderr, err := m.run(ctx, projectDir, "install")
	if err != nil {
		return wrapRunErr("installing project dependencies", stderr, err)
	}
	return nil
}

// run executes a manager subcommand. When EnvDir is set the virtualenv
// location is pinned through the manager's environment variable so that
// every run of the same project shares one environment.
func (m *Manager) run(ctx context.Context, dir string, args ...string) (string, string, error) {
	cmd := cmdrun.Cmd{Dir: dir, Name: m.Command, Args: args}
	if m.EnvDir != "" {
		cmd.Env = []string{"POETRY_VIRTUALENVS_PATH=" + m.EnvDir}
	}
	return m.Exec.Run(ctx, cmd)
}

func (m *Manager) console() io.Writer {
	if m.Console != nil {
		return m.Console
	}
	return os.Stdout
}

func (m *Manager) http() HTTPClient {
	if m.HTTP != nil {
		return m.HTTP
	}
	return http.DefaultClient
}

// title renders the manager name for console messages, "poetry" as
// "Poetry".
func (m *Manager) title() string {
	r := []rune(m.Command)
	if len(r) == 0 {
		return ""
	}
	return string(unicode.ToUpper(r[0])) + string(r[1:])
}

func wrapRunErr(action, stderr string, err error) error {
	if stderr != "" {
		return fmt.Errorf("%s: %w: %s", action, err, strings.TrimSpace(stderr))
	}
	return fmt.Errorf("%s: %w", action, err)
}
