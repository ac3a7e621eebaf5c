// Package media prepares cover images for posts: decode, downscale, and
// re-encode as JPEG under a slugified filename.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/indrastratagem/thunderbolt/content"
)

const (
	// DefaultMaxWidth is the cover width used when none is given.
	DefaultMaxWidth = 1200
	jpegQuality     = 80
)

// Image describes a processed cover.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
}

// ProcessCover decodes an image from src, resizes it to maxWidth when wider,
// and encodes it as JPEG. Returns metadata and the encoded bytes.
func ProcessCover(src io.Reader, originalName string, maxWidth int) (Image, []byte, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxWidth {
		newH := max(h*maxWidth/w, 1)
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
	}, buf.Bytes(), nil
}

func slugifyFilename(name string) string {
	base := content.Slugify(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	if base == "" {
		base = "cover"
	}
	return base
}

// Save writes data into dir under img.Filename, appending a counter when the
// name is taken, and returns the filename used.
func Save(dir string, img Image, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	base := strings.TrimSuffix(img.Filename, ".jpg")
	candidate := img.Filename
	for counter := 2; ; counter++ {
		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create image: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write image: %w", err)
		}
		return candidate, f.Close()
	}
}
