package preview_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fexplorer/internal/preview"
)

func write(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestModeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		head []byte
		want preview.Mode
	}{
		{name: "png by extension", path: "a.PNG", want: preview.Image},
		{name: "webp by extension", path: "a.webp", want: preview.Image},
		{name: "go source", path: "main.go", head: []byte("package main\n"), want: preview.Text},
		{name: "nul bytes", path: "blob", head: []byte{0x7f, 'E', 'L', 'F', 0, 0, 0, 1}, want: preview.Binary},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, preview.ModeFor(tt.path, tt.head))
		})
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := write(t, dir, "main.go", []byte("package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"))

	res := preview.Render(p, preview.Options{Hash: true})
	require.NoError(t, res.Err)
	assert.Equal(t, preview.Text, res.Mode)
	assert.Contains(t, res.Body, "package")
	assert.Contains(t, res.Body, "println")
	assert.NotContains(t, res.Body, "\t")
	assert.Equal(t, "Go", res.Info.Language)
	assert.Len(t, res.Info.SHA256, 64)
	assert.False(t, res.Truncated)
}

func TestRenderTextTruncated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := write(t, dir, "notes.txt", []byte(strings.Repeat("line\n", 100)))

	res := preview.Render(p, preview.Options{MaxBytes: 50})
	require.NoError(t, res.Err)
	assert.True(t, res.Truncated)
	assert.Equal(t, int64(500), res.Info.Size)
}

func TestRenderImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := write(t, dir, "dot.png", pngBytes(t, 4, 4))

	res := preview.Render(p, preview.Options{Width: 40, Height: 20})
	require.NoError(t, res.Err)
	assert.Equal(t, preview.Image, res.Mode)
	assert.Equal(t, "image/png", res.Info.MIME)

	lines := strings.Split(res.Body, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, 8, strings.Count(res.Body, "▀"))
}

func TestRenderImageDecodeError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := write(t, dir, "broken.jpg", []byte("definitely not a jpeg"))

	res := preview.Render(p, preview.Options{})
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "decode image")
	assert.Empty(t, res.Body)
}

func TestRenderBinary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := append([]byte{0, 1, 2, 3}, bytes.Repeat([]byte{0}, 1000)...)
	p := write(t, dir, "blob.bin", data)

	res := preview.Render(p, preview.Options{})
	require.NoError(t, res.Err)
	assert.Equal(t, preview.Binary, res.Mode)
	assert.True(t, strings.HasPrefix(res.Body, "00000000  00 01 02 03"))
	assert.True(t, res.Truncated)
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	res := preview.Render(filepath.Join(dir, "missing.txt"), preview.Options{})
	require.ErrorIs(t, res.Err, os.ErrNotExist)

	res = preview.Render(dir, preview.Options{})
	require.Error(t, res.Err)
}

func TestFitSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{w: 10, h: 10, maxW: 20, maxH: 20, wantW: 10, wantH: 10},
		{w: 200, h: 100, maxW: 40, maxH: 40, wantW: 40, wantH: 20},
		{w: 100, h: 400, maxW: 40, maxH: 40, wantW: 10, wantH: 40},
		{w: 0, h: 10, maxW: 40, maxH: 40, wantW: 0, wantH: 0},
	}

	for _, tt := range tests {
		gotW, gotH := preview.FitSize(tt.w, tt.h, tt.maxW, tt.maxH)
		assert.Equal(t, tt.wantW, gotW)
		assert.Equal(t, tt.wantH, gotH)
	}
}

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/vnd.ms-outlook", preview.DetectMIME(".msg"))
	assert.Equal(t, "application/pdf", preview.DetectMIME(".pdf"))
	assert.Equal(t, "application/octet-stream", preview.DetectMIME(".unknown"))
	assert.Equal(t, "application/octet-stream", preview.DetectMIME(""))
}

func TestHighlightFallsBack(t *testing.T) {
	t.Parallel()

	out, err := preview.Highlight("no-extension", "plain words here", "no-such-style")
	require.NoError(t, err)
	for _, word := range []string{"plain", "words", "here"} {
		assert.Contains(t, out, word)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "hello.txt", []byte("Hello, World!"))

	// SHA-256 of "Hello, World!"
	expected := "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
	assert.Equal(t, expected, preview.HashFile(path))
	assert.Empty(t, preview.HashFile(filepath.Join(dir, "nonexistent.txt")))

	res := preview.Render(path, preview.Options{Hash: true})
	require.NoError(t, res.Err)
	assert.Equal(t, expected, res.Info.SHA256)

	res = preview.Render(path, preview.Options{})
	assert.Empty(t, res.Info.SHA256, "hashing is opt-in")
}
