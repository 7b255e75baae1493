package ogf

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestOgf(t *testing.T, path string, width, height uint16) {
	t.Helper()
	total := uint8(width * height)
	data := buildOgf(tagARGB1555, "tex", 1, width, height, []run{{total, 0xFFFF}})
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestDiscoverInputs(t *testing.T) {
	dir := t.TempDir()
	writeTestOgf(t, filepath.Join(dir, "a.ogf"), 2, 2)
	writeTestOgf(t, filepath.Join(dir, "B.OGF"), 2, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644))

	single := filepath.Join(dir, "c.ogf")
	writeTestOgf(t, single, 4, 4)

	files, err := DiscoverInputs([]string{dir, single})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.ogf"),
		filepath.Join(dir, "B.OGF"),
		single,
	}, files[:3])
	// c.ogf is picked up twice: once via the directory, once directly.
	assert.Len(t, files, 4)
}

func TestConvertAll(t *testing.T) {
	dir := t.TempDir()
	writeTestOgf(t, filepath.Join(dir, "first.ogf"), 2, 2)
	writeTestOgf(t, filepath.Join(dir, "second.ogf"), 4, 2)

	outDir := filepath.Join(dir, "out")
	converted, failed := ConvertAll([]string{
		filepath.Join(dir, "first.ogf"),
		filepath.Join(dir, "second.ogf"),
	}, outDir, 2)

	assert.Equal(t, 2, converted)
	assert.Empty(t, failed)

	for _, name := range []string{"first_2_2.png", "second_4_2.png"} {
		f, err := os.Open(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err, name)
		assert.NotNil(t, img)
	}
}

func TestConvertAllSkipsBadInput(t *testing.T) {
	dir := t.TempDir()
	writeTestOgf(t, filepath.Join(dir, "good.ogf"), 2, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.ogf"), []byte("not a texture"), 0644))

	outDir := filepath.Join(dir, "out")
	converted, failed := ConvertAll([]string{
		filepath.Join(dir, "bad.ogf"),
		filepath.Join(dir, "good.ogf"),
	}, outDir, 1)

	assert.Equal(t, 1, converted)
	assert.Equal(t, []string{filepath.Join(dir, "bad.ogf")}, failed)

	_, err := os.Stat(filepath.Join(outDir, "good_2_2.png"))
	assert.NoError(t, err)
}

func TestConvertAllWriteConflict(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	// Same stem and same dimensions from two different directories
	// resolve to the same output name.
	writeTestOgf(t, filepath.Join(dirA, "dup.ogf"), 2, 2)
	writeTestOgf(t, filepath.Join(dirB, "dup.ogf"), 2, 2)

	outDir := filepath.Join(dirA, "out")
	converted, failed := ConvertAll([]string{
		filepath.Join(dirA, "dup.ogf"),
		filepath.Join(dirB, "dup.ogf"),
	}, outDir, 1)

	assert.Equal(t, 1, converted)
	assert.Len(t, failed, 1)
}
