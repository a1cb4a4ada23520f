// Package runlog writes the per-run log file that mirrors check output.
// Log writes never abort a run: when the file cannot be written the
// content falls back to the console instead.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vertti/pygate/pkg/check"
)

const nameLayout = "2006-01-02_15-04-05"

// FileName returns the log file name for a run started at t.
func FileName(t time.Time) string {
	return "log_" + t.Format(nameLayout) + ".txt"
}

// Log appends check output to a timestamped file inside a log folder.
type Log struct {
	dir     string
	path    string
	console io.Writer
}

// New builds a Log for a run started at start. Nothing is written until
// Create is called.
func New(dir string, start time.Time, console io.Writer) *Log {
	if console == nil {
		console = os.Stdout
	}
	return &Log{
		dir:     dir,
		path:    filepath.Join(dir, FileName(start)),
		console: console,
	}
}

// Path returns the full path of the log file.
func (l *Log) Path() string {
	return l.path
}

// Create makes the log folder and writes the log file header. Failures
// are reported on the console and the run continues; later appends will
// retry the file on their own.
func (l *Log) Create() {
	if err := os.MkdirAll(l.dir, 0o750); err != nil {
		fmt.Fprintf(l.console, "Log file %s not found, output will be shown on stdout.\n", l.path)
		return
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		fmt.Fprintf(l.console, "Log file %s not found, output will be shown on stdout.\n", l.path)
		return
	}
	fmt.Fprintf(f, "Log file created: %s\n", l.path)
	f.Close()
}

// AppendResult writes the log block for a finished check. A passing
// check logs its stdout, a failing check its stderr.
func (l *Log) AppendResult(r check.Result) {
	if r.OK() {
		if !l.append(r.Name + " succeeded.\n" + r.Stdout) {
			fmt.Fprintf(l.console, "Log file not found. Output for %s:\n%s\n", r.Name, r.Stdout)
		}
		return
	}
	if !l.append(r.Name + " failed with error:\n" + r.Stderr + "\n") {
		fmt.Fprintf(l.console, "Log file not found. Error for %s:\n%s\n", r.Name, r.Stderr)
	}
}

// AppendLine writes a single line to the log file.
func (l *Log) AppendLine(line string) {
	if !l.append(line + "\n") {
		fmt.Fprintf(l.console, "Log file %s not found, logging to stdout.\n", l.path)
	}
}

// append opens the file in append mode for each write, matching the
// lifetime of the run: a deleted file is recreated, a deleted folder
// makes the write fail and routes output to the console.
func (l *Log) append(content string) bool {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return false
	}
	defer f.Close()
	if _, err := io.WriteString(f, content); err != nil {
		return false
	}
	return true
}
