package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireErrorLines asserts that err is non-nil and that its message contains
// each of the given lines.
func RequireErrorLines(t *testing.T, err error, lines ...string) {
	t.Helper()

	require.Error(t, err)
	for _, line := range lines {
		require.Contains(t, err.Error(), line)
	}
}
