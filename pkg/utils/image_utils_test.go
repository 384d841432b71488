package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestInspectPNG(t *testing.T) {
	ct, err := NewImageInspector(zap.NewNop()).Inspect("side.png", pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
}

func TestInspectRejectsNonImages(t *testing.T) {
	p := NewImageInspector(zap.NewNop())

	_, err := p.Inspect("notes.jpg", []byte("just some text"))
	assert.ErrorIs(t, err, ErrNotImage)

	// PNG signature followed by garbage.
	_, err = p.Inspect("broken.png", append([]byte("\x89PNG\r\n\x1a\n"), 0, 1, 2))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestReadImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sole.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))

	data, ct, err := NewImageInspector(zap.NewNop()).ReadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.NotEmpty(t, data)

	_, _, err = NewImageInspector(zap.NewNop()).ReadImageFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Phantom GX Elite", SanitizeFilename("Phantom GX Elite"))
	assert.Equal(t, "a_b_c_", SanitizeFilename("a/b\\c\""))
}
