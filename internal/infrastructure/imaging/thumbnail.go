// Package imaging scales uploaded pictures down for previews.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const defaultQuality = 85

// Thumbnailer implements ports.Thumbnailer and always emits JPEG.
type Thumbnailer struct {
	quality int
}

func NewThumbnailer(quality int) *Thumbnailer {
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	return &Thumbnailer{quality: quality}
}

// Thumbnail scales content so its longer side is at most maxSide, keeping the
// aspect ratio. Smaller images are re-encoded but not enlarged.
func (t *Thumbnailer) Thumbnail(content []byte, maxSide int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	w, h := fit(bounds.Dx(), bounds.Dy(), maxSide)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; paint transparent logos on white
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: t.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(w, h, maxSide int) (int, int) {
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}
