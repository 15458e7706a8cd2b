package configinfra

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	configdomain "kilometers.ai/buildcfg/internal/core/domain/config"
	configports "kilometers.ai/buildcfg/internal/core/ports/config"
)

// DefaultConfigFile is looked up in the working directory
const DefaultConfigFile = ".buildcfg.toml"

// FileLoader reads settings from a TOML file (priority 3). With no explicit
// path it searches the working directory, then ~/.config/buildcfg/config.toml.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader { return &FileLoader{path: path} }

func (l *FileLoader) Name() string { return "file" }

func (l *FileLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)

	path, explicit := l.path, l.path != ""
	if !explicit {
		path = l.discover()
		if path == "" {
			return snap, nil
		}
	}

	var kv map[string]interface{}
	if _, err := toml.DecodeFile(path, &kv); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return snap, nil
		}
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	for field, v := range kv {
		snap[field] = configdomain.Entry{Key: field, Value: v, Source: "file", SourcePath: path, Priority: configdomain.PriorityFile}
	}
	return snap, nil
}

// Path returns the file that Load would read, or "" when none exists
func (l *FileLoader) Path() string {
	if l.path != "" {
		return l.path
	}
	return l.discover()
}

func (l *FileLoader) discover() string {
	var candidates []string
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "buildcfg", "config.toml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

var _ configports.Loader = (*FileLoader)(nil)
