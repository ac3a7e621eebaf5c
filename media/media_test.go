package media

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
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessCoverDownscales(t *testing.T) {
	img, data, err := ProcessCover(bytes.NewReader(pngOf(t, 400, 200)), "My Cover Shot.PNG", 100)
	require.NoError(t, err)

	assert.Equal(t, "my-cover-shot.jpg", img.Filename)
	assert.Equal(t, "My Cover Shot.PNG", img.OriginalName)
	assert.Equal(t, 100, img.Width)
	assert.Equal(t, 50, img.Height)
	assert.Equal(t, len(data), img.Size)

	decoded, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, decoded.Bounds().Dx())
}

func TestProcessCoverKeepsSmallImages(t *testing.T) {
	img, _, err := ProcessCover(bytes.NewReader(pngOf(t, 80, 60)), "small.png", 0)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Width)
	assert.Equal(t, 60, img.Height)
}

func TestProcessCoverRejectsGarbage(t *testing.T) {
	_, _, err := ProcessCover(strings.NewReader("not an image"), "x.png", 100)
	assert.ErrorContains(t, err, "decode image")
}

func TestProcessCoverFallbackName(t *testing.T) {
	img, _, err := ProcessCover(bytes.NewReader(pngOf(t, 10, 10)), "!!!.png", 100)
	require.NoError(t, err)
	assert.Equal(t, "cover.jpg", img.Filename)
}

func TestSaveAvoidsCollisions(t *testing.T) {
	dir := t.TempDir()
	img := Image{Filename: "cover.jpg"}

	first, err := Save(dir, img, []byte("one"))
	require.NoError(t, err)
	second, err := Save(dir, img, []byte("two"))
	require.NoError(t, err)

	assert.Equal(t, "cover.jpg", first)
	assert.Equal(t, "cover-2.jpg", second)

	got, err := os.ReadFile(filepath.Join(dir, second))
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}
