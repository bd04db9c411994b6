// Package manifest handles magicnum.toml run configuration.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "magicnum.toml"

// Manifest represents a magicnum.toml configuration.
type Manifest struct {
	Run   Run   `toml:"run"`
	Input Input `toml:"input"`
	Log   Log   `toml:"log"`

	// Dir is the directory containing the magicnum.toml file (set at load time).
	Dir string `toml:"-"`
	// Path is the file the manifest was read from (set at load time).
	Path string `toml:"-"`
}

// Run configures program execution.
type Run struct {
	Debug    bool   `toml:"debug"`
	TraceOut string `toml:"trace-out"`
	MaxSteps int    `toml:"max-steps"`
}

// Input replaces standard input with a scripted queue when Lines is set.
type Input struct {
	Lines []string `toml:"lines"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Load parses a magicnum.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path, whatever its name.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	m.Dir = filepath.Dir(m.Path)

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a magicnum.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks value ranges.
func (m *Manifest) Validate() error {
	var errs []error
	if m.Run.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("run.max-steps must not be negative, got %d", m.Run.MaxSteps))
	}
	if m.Log.Verbosity < -4 || m.Log.Verbosity > 2 {
		errs = append(errs, fmt.Errorf("log.verbosity must be between -4 and 2, got %d", m.Log.Verbosity))
	}
	return errors.Join(errs...)
}

// TraceOutPath returns Run.TraceOut resolved against the manifest
// directory, or "" when no trace file is configured.
func (m *Manifest) TraceOutPath() string {
	return m.resolve(m.Run.TraceOut)
}

// LogFilePath returns Log.File resolved against the manifest directory,
// or "" for standard error.
func (m *Manifest) LogFilePath() string {
	return m.resolve(m.Log.File)
}

// Scripted reports whether input comes from the manifest instead of stdin.
func (m *Manifest) Scripted() bool {
	return len(m.Input.Lines) > 0
}

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
