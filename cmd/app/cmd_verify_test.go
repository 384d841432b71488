package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootcheck/internal/domain"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestVerifyCommand(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	side := writePNG(t, dir, "side.png")
	sole := writePNG(t, dir, "sole.png")
	tag := writePNG(t, dir, "tag.png")

	t.Run("missing mandatory photo is a validation error", func(t *testing.T) {
		err := runCLI(t, "verify", "--brand", "Nike", "--model", "Phantom", "--tier", "Elite", "--weight", "215",
			"--side", side, "--sole", sole, "--tag", "")
		require.Error(t, err)
		assert.True(t, domain.HasKind(err, domain.KindValidation))
	})

	t.Run("missing API key is a configuration error", func(t *testing.T) {
		err := runCLI(t, "verify", "--brand", "Nike", "--model", "Phantom", "--tier", "Elite", "--weight", "215",
			"--side", side, "--sole", sole, "--tag", tag)
		require.Error(t, err)
		assert.True(t, domain.HasKind(err, domain.KindConfiguration))
	})
}
