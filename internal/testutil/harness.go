package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// BuildTree is a fake meson build directory laid out the way the verifier
// expects: <Root>/meson-info/intro-targets.json and <Root>/tests.
type BuildTree struct {
	Root string
	// TestDir is the value G_TEST_BUILDDIR points at; its parent is Root.
	TestDir string
}

// NewBuildTree creates an empty build tree in a temporary directory. No
// introspection data is written until WriteTargets is called.
func NewBuildTree(t *testing.T) *BuildTree {
	t.Helper()

	root := t.TempDir()
	testDir := filepath.Join(root, "tests")
	require.NoError(t, os.MkdirAll(testDir, 0o755))
	return &BuildTree{Root: root, TestDir: testDir}
}

// WriteTargets writes intro-targets.json listing the given target names.
func (b *BuildTree) WriteTargets(t *testing.T, names ...string) {
	t.Helper()

	targets := make([]map[string]any, 0, len(names))
	for _, name := range names {
		targets = append(targets, map[string]any{
			"name": name,
			"id":   name + "@run",
			"type": "run",
		})
	}
	data, err := json.Marshal(targets)
	require.NoError(t, err)
	b.WriteRaw(t, filepath.Join("meson-info", "intro-targets.json"), string(data))
}

// WriteRaw writes content to a path relative to the build root.
func (b *BuildTree) WriteRaw(t *testing.T, rel, content string) {
	t.Helper()

	path := filepath.Join(b.Root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// WriteCompileCommands writes an empty compile_commands.json.
func (b *BuildTree) WriteCompileCommands(t *testing.T) {
	t.Helper()
	b.WriteRaw(t, "compile_commands.json", "[]")
}

// Path joins rel onto the build root.
func (b *BuildTree) Path(rel string) string {
	return filepath.Join(b.Root, rel)
}
