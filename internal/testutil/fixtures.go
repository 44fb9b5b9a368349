package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SamplePodSpec is a minimal pod document used when a test needs a
// non-empty pod_spec.
const SamplePodSpec = `apiVersion: v1
kind: Pod
metadata:
  name: sample
spec:
  containers:
    - name: app
      image: nginx:stable
`

// SetupTestDir creates a temporary working directory containing an empty
// .stackconsole directory and returns its path.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".stackconsole"), 0o755))
	return tmpDir
}

// WriteTestFile writes content to basePath/relativePath, creating parent
// directories as needed, and returns the full path.
func WriteTestFile(t *testing.T, basePath, relativePath string, content []byte) string {
	t.Helper()

	fullPath := filepath.Join(basePath, relativePath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, content, 0o644))
	return fullPath
}

// MustUnmarshalJSON unmarshals data into a generic value or fails the test.
func MustUnmarshalJSON(t *testing.T, data []byte) any {
	t.Helper()

	var v any
	require.NoError(t, json.Unmarshal(data, &v), "failed to unmarshal JSON: %s", data)
	return v
}
