// Package keycheck loads the configuration source into an environment
// snapshot, looks up the API key and describes the outcome.
package keycheck

import (
	"errors"

	"github.com/jenian/keycheck/internal/config"
	"github.com/jenian/keycheck/internal/envfile"
	"github.com/jenian/keycheck/internal/environment"
	"github.com/jenian/keycheck/internal/redact"
	"go.uber.org/zap"
)

// ErrKeyNotFound is returned by Result.Err when the key is unset or empty
var ErrKeyNotFound = errors.New("api key not found")

// Result is the outcome of a single check. It never holds the raw key.
type Result struct {
	Key     string `json:"key"`
	Found   bool   `json:"found"`
	Source  string `json:"source,omitempty"`
	Masked  string `json:"masked,omitempty"`
	EnvFile string `json:"env_file"`
}

// Err returns ErrKeyNotFound for a failed check and nil otherwise
func (r Result) Err() error {
	if !r.Found {
		return ErrKeyNotFound
	}
	return nil
}

// Check loads cfg.EnvFile into snapshot and looks up cfg.Key.
// A nil snapshot captures the process environment; a nil logger disables logging.
// The returned error covers loading failures only, a missing key is reported
// through the Result.
func Check(cfg *config.Config, snapshot *environment.Snapshot, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if snapshot == nil {
		snapshot = environment.Capture()
	}

	result := Result{Key: cfg.Key, EnvFile: cfg.EnvFile}

	if err := cfg.Validate(); err != nil {
		return result, err
	}

	if redact.LooksLikeToken(cfg.Key) {
		logger.Warn("lookup key name looks like a token, not a variable name",
			zap.String("key", redact.Mask(cfg.Key, 4)))
	}

	loader := envfile.NewLoader(cfg.EnvFile)
	loader.SetOverride(cfg.Override)
	loader.SetLogger(logger)
	if _, err := loader.LoadInto(snapshot); err != nil {
		return result, err
	}

	value, ok := snapshot.Lookup(cfg.Key)
	if !ok {
		logger.Debug("api key not found", zap.String("source", snapshot.Source(cfg.Key)))
		return result, nil
	}

	result.Found = true
	result.Source = snapshot.Source(cfg.Key)
	result.Masked = redact.Mask(value, cfg.MaskPrefix)
	logger.Debug("api key found", zap.String("source", result.Source), zap.Int("length", len(value)))
	return result, nil
}
