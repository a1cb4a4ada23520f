// Package permcheck verifies write access to a directory by creating and
// removing a marker file inside it.
package permcheck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// markerName is the probe file briefly created inside the target directory.
const markerName = ".pygate-write-test"

// Probe reports whether dir is writable. A permission denial returns
// (false, nil); any other failure, including a missing directory, is an
// error the caller should treat as fatal.
func Probe(dir string) (bool, error) {
	marker := filepath.Join(dir, markerName)

	f, err := os.Create(marker)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return false, nil
		}
		return false, fmt.Errorf("probing %s: %w", dir, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("probing %s: %w", dir, err)
	}

	if err := os.Remove(marker); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return false, nil
		}
		return false, fmt.Errorf("probing %s: %w", dir, err)
	}
	return true, nil
}
