package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// DefaultPath returns $XDG_CONFIG_HOME/debreate/config, falling back to
// ~/.config/debreate/config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(HomeDir(), ".config")
	}
	return filepath.Join(dir, "debreate", "config")
}

func isRegularFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// ensureDir creates dir when missing. It fails when something other than a
// directory already occupies the path.
func ensureDir(dir string) error {
	fi, err := os.Stat(dir)
	switch {
	case err == nil:
		if !fi.IsDir() {
			return fmt.Errorf("cannot create config directory, file exists: %s", dir)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
		return nil
	default:
		return err
	}
}

// readText loads the whole file. ok is false when the file does not exist.
func readText(path string) (text string, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// writeText replaces path atomically: readers see either the old or the new
// content, never a partial write.
func writeText(path, text string) error {
	if err := renameio.WriteFile(path, []byte(text), filePerm); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
