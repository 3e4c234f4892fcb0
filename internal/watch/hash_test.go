package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	got, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", got)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestTracker_Changed(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	require.NoError(t, os.WriteFile(a, []byte("a1"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b1"), 0o644))

	tr := NewTracker()
	tr.Seed(a, b)

	changed, err := tr.Changed([]string{a, b})
	require.NoError(t, err)
	assert.Empty(t, changed, "seeded files are unchanged")

	require.NoError(t, os.WriteFile(b, []byte("b2"), 0o644))
	changed, err = tr.Changed([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{b}, changed)

	changed, err = tr.Changed([]string{b})
	require.NoError(t, err)
	assert.Empty(t, changed, "same content twice")

	require.NoError(t, os.Remove(a))
	_, err = tr.Changed([]string{a})
	assert.Error(t, err)
	require.NoError(t, os.WriteFile(a, []byte("a1"), 0o644))
	changed, err = tr.Changed([]string{a})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, changed, "recreated with the same content")
}

func TestTracker_MissingFile(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.xml")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o644))

	changed, err := NewTracker().Changed([]string{filepath.Join(dir, "gone.xml"), present})
	assert.Error(t, err)
	assert.Equal(t, []string{present}, changed)
}
