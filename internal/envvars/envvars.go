// Package envvars captures the process environment once, at startup, so the
// checks read an immutable snapshot instead of process-wide state.
package envvars

import (
	"fmt"
	"maps"
	"strings"

	"github.com/joho/godotenv"
)

// FlagTrue is the only value that turns an expectation flag on.
const FlagTrue = "1"

// Snapshot is an immutable view of environment variables.
type Snapshot struct {
	vars map[string]string
}

// New builds a snapshot from a plain map. The map is copied.
func New(vars map[string]string) Snapshot {
	return Snapshot{vars: maps.Clone(vars)}
}

// FromEnviron parses KEY=VALUE pairs as returned by os.Environ.
func FromEnviron(environ []string) Snapshot {
	vars := make(map[string]string, len(environ))
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			vars[pair[0]] = pair[1]
		}
	}
	return Snapshot{vars: vars}
}

// WithDotenv layers the variables of a dotenv file under the snapshot:
// variables already present keep their value, as with godotenv.Load.
func (s Snapshot) WithDotenv(path string) (Snapshot, error) {
	fileVars, err := godotenv.Read(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	merged := maps.Clone(fileVars)
	if merged == nil {
		merged = make(map[string]string)
	}
	maps.Copy(merged, s.vars)
	return Snapshot{vars: merged}, nil
}

// Lookup returns the value of name and whether it is set.
func (s Snapshot) Lookup(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Get returns the value of name, or "" when unset.
func (s Snapshot) Get(name string) string {
	return s.vars[name]
}

// Flag reports whether name is set to exactly "1". Any other value,
// including unset, is false.
func (s Snapshot) Flag(name string) bool {
	return s.vars[name] == FlagTrue
}

// Map returns a copy of all variables.
func (s Snapshot) Map() map[string]string {
	return maps.Clone(s.vars)
}
