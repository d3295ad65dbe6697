package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 120, B: 220, A: 255})
		}
	}
	path := filepath.Join(dir, "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir, 400, 100)
	outPath := filepath.Join(dir, "out.jpg")

	stdout, err := execute(t, in, "--max-dimension", "200", "--out", outPath, "--palette")
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, "input.png", rep.File)
	assert.Equal(t, "png", rep.Format)
	assert.Equal(t, 200, rep.Width)
	assert.Equal(t, 50, rep.Height)
	assert.Equal(t, outPath, rep.Output)
	require.NotEmpty(t, rep.Palette)
	assert.Equal(t, "Primary", rep.Palette[0].Name)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, rep.OutputSize, len(written))
	assert.Equal(t, []byte{0xFF, 0xD8}, written[:2])
}

func TestRootCmd_YAML(t *testing.T) {
	in := writePNG(t, t.TempDir(), 10, 10)

	stdout, err := execute(t, in, "--format", "yaml")
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, 10, rep["width"])
	assert.NotContains(t, rep, "palette")
}

func TestRootCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir, 10, 10)

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, in, "--format", "xml")
		assert.ErrorContains(t, err, "unknown format")
	})

	t.Run("too large", func(t *testing.T) {
		_, err := execute(t, in, "--max-size", "10")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, filepath.Join(dir, "nope.png"))
		assert.Error(t, err)
	})

	t.Run("no args", func(t *testing.T) {
		_, err := execute(t)
		assert.Error(t, err)
	})
}
