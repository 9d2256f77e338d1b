package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// reads a configuration file, `name` should come with a file extension.
// the following files are merged, where the higher number wins:
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	dirname := filepath.Dir(name)
	basename := filepath.Base(name)
	ext := filepath.Ext(basename)
	prefix := strings.TrimSuffix(basename, ext)

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		err = json5.Unmarshal(defaultFile, &out)
		if err != nil {
			return out, err
		}
		allNotFound = false
	}

	localPath := filepath.Join(dirname, fmt.Sprintf("%s.local%s", prefix, ext))
	localFile, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		err = json5.Unmarshal(localFile, &override)
		if err != nil {
			return out, err
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		allNotFound = false
	}

	if allNotFound {
		slog.Warn("no config files found, using zero values", "name", name)
	}
	return out, nil
}

// ReadRecursively walks up the directory tree from the cwd until it
// finds `name`, then reads it with ReadConfig. Used for configs shared
// by every binary in the repo (e.g. telemetry.json5).
func ReadRecursively[T any](name string) (T, error) {
	var out T

	dir, err := os.Getwd()
	if err != nil {
		return out, err
	}
	for {
		candidate := filepath.Join(dir, name)
		_, err := os.Stat(candidate)
		if err == nil {
			return ReadConfig[T](candidate)
		}
		if !os.IsNotExist(err) {
			return out, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return out, fmt.Errorf("could not find %s in any parent directory", name)
		}
		dir = parent
	}
}
