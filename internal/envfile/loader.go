package envfile

import (
	"fmt"
	"os"

	"github.com/jenian/keycheck/internal/config"
	"github.com/jenian/keycheck/internal/environment"
	"go.uber.org/zap"
)

// Loader reads key/value pairs from a single configuration source
type Loader struct {
	path     string
	override bool
	logger   *zap.Logger
}

// NewLoader creates a loader for the given file. An empty path means .env
// in the working directory.
func NewLoader(path string) *Loader {
	if path == "" {
		path = config.DefaultEnvFile
	}
	return &Loader{
		path:   path,
		logger: zap.NewNop(),
	}
}

// SetOverride makes values from the file replace ambient ones
func (l *Loader) SetOverride(enabled bool) {
	l.override = enabled
}

// SetLogger sets the logger used for debug output
func (l *Loader) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l.logger = logger
}

// Path returns the configuration source path
func (l *Loader) Path() string {
	return l.path
}

// Load parses the configuration source.
// A missing file is not an error and yields an empty map.
func (l *Loader) Load() (map[string]string, error) {
	vars, err := parseEnvFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", l.path, err)
	}
	l.logger.Debug("parsed env file",
		zap.String("path", l.path),
		zap.String("format", detectFileType(l.path)),
		zap.Int("keys", len(vars)))
	return vars, nil
}

// LoadInto parses the configuration source and merges it into snapshot.
// Keys already present in the snapshot win unless override is set, so
// calling it again with an unchanged file leaves the snapshot unchanged.
func (l *Loader) LoadInto(snapshot *environment.Snapshot) ([]string, error) {
	vars, err := l.Load()
	if err != nil {
		return nil, err
	}
	written := snapshot.Merge(vars, l.path, l.override)
	l.logger.Debug("merged env file into snapshot",
		zap.String("path", l.path),
		zap.Strings("keys", written),
		zap.Bool("override", l.override))
	return written, nil
}

// Export applies the configuration source to the process environment
// through setenv, skipping keys lookup already reports unless override is
// set. Nil functions default to os.Setenv and os.LookupEnv.
func (l *Loader) Export(setenv func(key, value string) error, lookup func(key string) (string, bool)) error {
	if setenv == nil {
		setenv = os.Setenv
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	vars, err := l.Load()
	if err != nil {
		return err
	}

	for k, v := range vars {
		if _, exists := lookup(k); exists && !l.override {
			continue
		}
		if err := setenv(k, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", k, err)
		}
	}
	return nil
}

// LoadEnvironment loads path into the process environment. It is a no-op
// when the file does not exist.
func LoadEnvironment(path string) error {
	return NewLoader(path).Export(nil, nil)
}
