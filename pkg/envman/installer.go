package envman

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/vertti/pygate/pkg/cmdrun"
)

// Install downloads the manager's installer script and runs it with the
// system interpreter. The script is written to a temp file first so that
// a truncated download never reaches the interpreter, and is removed
// when the installer finishes.
func (m *Manager) Install(ctx context.Context) error {
	title := m.title()
	fmt.Fprintf(m.console(), "%s is not installed. Installing %s...\n", title, title)

	script, err := m.downloadInstaller(ctx)
	if err != nil {
		return fmt.Errorf("downloading %s installer: %w", m.Command, err)
	}
	defer os.Remove(script)

	_, stderr, err := m.Exec.Run(ctx, cmdrun.Cmd{Name: InstallerPython, Args: []string{script}})
	if err != nil {
		return wrapRunErr(fmt.Sprintf("running %s installer", m.Command), stderr, err)
	}
	return nil
}

func (m *Manager) downloadInstaller(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.InstallerURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := m.http().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, m.InstallerURL)
	}

	f, err := os.CreateTemp("", m.Command+"-installer-*.py")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
