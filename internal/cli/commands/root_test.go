package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const (
	fixture          = "../../../testdata/gwsample_basic.xml"
	fixtureNamespace = "GWSAMPLE_BASIC"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return out.String(), err
}

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// copyFixture copies the sample metadata document into dir.
func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	doc, err := os.ReadFile(fixture)
	require.NoError(t, err)
	return writeFile(t, dir, name, string(doc))
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "odatagen", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "generate", "inspect", "watch", "fetch"} {
		assert.Contains(t, names, expected)
	}

	for _, flag := range []string{"config", "verbose", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	oldVersion, oldCommit, oldDate, oldGo := Version, GitCommit, BuildDate, GoVersion
	t.Cleanup(func() { Version, GitCommit, BuildDate, GoVersion = oldVersion, oldCommit, oldDate, oldGo })

	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-01-01"
	GoVersion = "go1.23"

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "odatagen version: 1.0.0-test")
	assert.Contains(t, out, "Git commit: abc123")
	assert.Contains(t, out, "Build date: 2025-01-01")
	assert.Contains(t, out, "Go version: go1.23")
}

func TestGlobalOptions_Logger(t *testing.T) {
	quiet, err := (&globalOptions{}).logger()
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zapcore.DebugLevel), "debug is disabled by default")
	assert.True(t, quiet.Core().Enabled(zapcore.WarnLevel), "warnings are enabled")

	verbose, err := (&globalOptions{verbose: true}).logger()
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}
