package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sapodata/odatagen/internal/cli/config"
)

func watchedService(t *testing.T) (config.Service, string) {
	t.Helper()
	dir := t.TempDir()
	input := copyFixture(t, dir, "gwsample_basic.xml")
	return config.Service{
		Name:      "gwsample",
		Input:     input,
		Namespace: fixtureNamespace,
		Package:   "gwsample",
		Output:    filepath.Join(dir, "gen"),
	}, input
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand(&globalOptions{})

	assert.Equal(t, "watch [service...]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("delay"))
	assert.NotNil(t, cmd.Flags().Lookup("jobs"))
}

func TestServiceWatcher_OnChange(t *testing.T) {
	svc, input := watchedService(t)
	var out bytes.Buffer

	sw, err := newServiceWatcher(&out, []config.Service{svc}, zap.NewNop(), 1, true)
	require.NoError(t, err)
	sw.tracker.Seed(sw.inputs()...)

	require.NoError(t, sw.onChange([]string{input}))
	assert.Equal(t, 0, sw.rebuilds, "unchanged content is not regenerated")
	assert.NoFileExists(t, filepath.Join(svc.Output, "gwsample_basic.go"))

	f, err := os.OpenFile(input, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("\n<!-- touched -->\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, sw.onChange([]string{input}))
	assert.Equal(t, 1, sw.rebuilds)
	assert.Contains(t, out.String(), "1 file(s) changed, regenerating...")
	assert.Contains(t, out.String(), "✓ gwsample: wrote")
	assert.FileExists(t, filepath.Join(svc.Output, "gwsample_basic.go"))
}

func TestServiceWatcher_IgnoresUnknownFiles(t *testing.T) {
	svc, _ := watchedService(t)
	other := writeFile(t, t.TempDir(), "other.xml", "<x/>")
	var out bytes.Buffer

	sw, err := newServiceWatcher(&out, []config.Service{svc}, zap.NewNop(), 1, true)
	require.NoError(t, err)

	require.NoError(t, sw.onChange([]string{other}))
	assert.Equal(t, 0, sw.rebuilds)
	assert.Empty(t, out.String())
}

func TestWatchServices_InitialBuildAndStop(t *testing.T) {
	svc, _ := watchedService(t)
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchServices(ctx, &out, []config.Service{svc}, zap.NewNop(), &watchOptions{
			globalOptions: &globalOptions{noColor: true},
			delay:         10 * time.Millisecond,
			jobs:          1,
		})
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(svc.Output, "gwsample_basic.go"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
