// Package fsutil holds small file helpers shared by the config and fuel
// type loaders.
package fsutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists reports whether path exists. Errors other than not-exist count
// as existing so callers surface them on open.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// ErrUnsupportedExt is returned by DecodeFile for unknown file extensions.
var ErrUnsupportedExt = errors.New("unsupported file extension")

// DecodeFile reads path (after ~ expansion) and unmarshals it into v based
// on its extension: .yaml/.yml, .json or .toml.
func DecodeFile(path string, v any) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	p, err := ExpandHome(path)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, v)
	case ".json":
		err = json.Unmarshal(b, v)
	case ".toml":
		err = toml.Unmarshal(b, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(p), err)
	}
	return nil
}
