// =============================================================================
// 🧪 Test helpers
// =============================================================================
// Shared helpers for contexts, temp files and JSON fixtures.
//
// Usage:
//
//	ctx := testutil.TestContext(t)
//	path := testutil.WriteFile(t, "input/caso.txt", "texto")
// =============================================================================
package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// 🎯 Contexts
// =============================================================================

// TestContext returns a context bounded to 30s and canceled on cleanup.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext returns an already canceled context.
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// =============================================================================
// 📁 Files
// =============================================================================

// WriteFile writes content to rel below a fresh temp dir and returns the
// absolute path. Parent directories are created.
func WriteFile(t *testing.T, rel, content string) string {
	t.Helper()
	return WriteFileIn(t, t.TempDir(), rel, content)
}

// WriteFileIn writes content to rel below dir.
func WriteFileIn(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// =============================================================================
// 🔧 JSON
// =============================================================================

// MustParseJSON unmarshals s into a T or panics.
func MustParseJSON[T any](s string) T {
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		panic(err)
	}
	return v
}
