package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const validDocument = `ids: core_profiles
data:
  ids_properties:
    homogeneous_time: 1
  time: [0.0, 1.0, 2.0]
  global_quantities:
    ip: [1.0e6, 1.1e6, 1.2e6]
`

const invalidDocument = `ids: core_profiles
occurrence: 1
data:
  ids_properties:
    homogeneous_time: 1
  time: [0.0, 1.0, 2.0]
  global_quantities:
    ip: [1.0e6, 1.1e6]
`

// writeDocument writes a document file into a temp dir and returns its path.
func writeDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// testOptions returns root options over the fixture dictionary and a fresh
// database.
func testOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	return &RootOptions{
		Format:     format,
		LogLevel:   "error",
		DB:         filepath.Join(t.TempDir(), "idsgo.db"),
		Dictionary: fixtureDictionary,
	}
}

// execute runs cmd with args and returns its stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
