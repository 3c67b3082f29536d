package environment

import (
	"os"
	"sort"
	"strings"
)

// SourceProcess marks values that came from the ambient process environment
const SourceProcess = "environment"

// Snapshot is the set of key/value pairs visible to a single check run.
// It is built once at startup and passed to whatever needs it instead of
// mutating the process environment.
type Snapshot struct {
	vars    map[string]string
	sources map[string]string
}

// New creates an empty snapshot
func New() *Snapshot {
	return &Snapshot{
		vars:    make(map[string]string),
		sources: make(map[string]string),
	}
}

// Capture returns a snapshot of the current process environment
func Capture() *Snapshot {
	return FromEnviron(os.Environ())
}

// FromEnviron builds a snapshot from KEY=VALUE pairs in os.Environ format
func FromEnviron(environ []string) *Snapshot {
	s := New()
	for _, kv := range environ {
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		s.vars[parts[0]] = parts[1]
		s.sources[parts[0]] = SourceProcess
	}
	return s
}

// Merge adds vars to the snapshot, recording source for each key it sets.
// Existing keys are kept unless override is true. It returns the keys that
// were actually written.
func (s *Snapshot) Merge(vars map[string]string, source string, override bool) []string {
	var written []string
	for k, v := range vars {
		if k == "" {
			continue
		}
		if _, exists := s.vars[k]; exists && !override {
			continue
		}
		s.vars[k] = v
		s.sources[k] = source
		written = append(written, k)
	}
	sort.Strings(written)
	return written
}

// Lookup returns the value for name. An unset or empty value reports false.
func (s *Snapshot) Lookup(name string) (string, bool) {
	value, ok := s.vars[name]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Source returns where name was loaded from, or "" if it is unset
func (s *Snapshot) Source(name string) string {
	return s.sources[name]
}

// Len returns the number of keys in the snapshot
func (s *Snapshot) Len() int {
	return len(s.vars)
}
