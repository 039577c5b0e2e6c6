package loader_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprite/engine/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, encodePNG(t, w, h), 0o644))
	return path
}

func TestDecode(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeImage)
	path := writePNG(t, t.TempDir(), "a.png", 3, 2)

	data, err := l.Decode(path)
	require.NoError(t, err)
	assert.EqualValues(t, 3, data.Width)
	assert.EqualValues(t, 2, data.Height)
	assert.Len(t, data.Pixels, 3*2*4)
	assert.Equal(t, []byte{10, 20, 30, 255}, data.Pixels[:4])
}

func TestDecode_Missing(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeImage)

	_, err := l.Decode(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeReader(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeImage)

	data, err := l.DecodeReader(bytes.NewReader(encodePNG(t, 5, 1)))
	require.NoError(t, err)
	assert.EqualValues(t, 5, data.Width)

	_, err = l.DecodeReader(bytes.NewReader([]byte("garbage")))
	assert.Error(t, err)
}

func TestDecodeAll_PreservesOrder(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeImage, loader.WithWorkers(3))
	dir := t.TempDir()

	var paths []string
	for i := range 12 {
		if i == 5 {
			paths = append(paths, filepath.Join(dir, "missing.png"))
			continue
		}
		paths = append(paths, writePNG(t, dir, fmt.Sprintf("img%d.png", i), i+1, 1))
	}

	results := l.DecodeAll(paths...)
	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
		if i == 5 {
			assert.Error(t, r.Err)
			continue
		}
		require.NoError(t, r.Err)
		assert.EqualValues(t, i+1, r.Data.Width, "result %d", i)
	}
}

func TestDecodeAll_Empty(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeImage)
	assert.Empty(t, l.DecodeAll())
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "a.png", 2, 2)

	uncached := loader.NewLoader(loader.BackendTypeImage)
	_, err := uncached.Decode(path)
	require.NoError(t, err)
	_, ok := uncached.Get(path)
	assert.False(t, ok)

	cached := loader.NewLoader(loader.BackendTypeImage, loader.WithCache())
	_, err = cached.Decode(path)
	require.NoError(t, err)
	data, ok := cached.Get(path)
	require.True(t, ok)
	assert.EqualValues(t, 2, data.Width)

	// A cached path decodes even after the file is gone.
	require.NoError(t, os.Remove(path))
	_, err = cached.Decode(path)
	assert.NoError(t, err)

	cached.Evict(path)
	_, ok = cached.Get(path)
	assert.False(t, ok)
	_, err = cached.Decode(path)
	assert.Error(t, err)
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 4, loader.NewLoader(loader.BackendTypeImage).Workers())
	assert.Equal(t, 1, loader.NewLoader(loader.BackendTypeImage, loader.WithWorkers(0)).Workers())
	assert.Equal(t, 8, loader.NewLoader(loader.BackendTypeImage, loader.WithWorkers(8)).Workers())
	assert.Same(t, loader.Shared(), loader.Shared())
}
