package headshot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxPNGBytes is the size above which a compressed headshot is stored as
// JPEG instead, keeping its .png name.
const MaxPNGBytes = 200_000

// EmbedMaxSize bounds inline thumbnails in a self-contained report.
const EmbedMaxSize = 300

// Thumbnail flattens src onto white and scales it to fit within maxSize
// on its longest side, preserving aspect ratio. Smaller images keep their size.
func Thumbnail(src image.Image, maxSize int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// Compress decodes an image, shrinks it to maxSize and re-encodes it as
// PNG, falling back to JPEG at quality when the PNG exceeds MaxPNGBytes.
func Compress(data []byte, maxSize, quality int) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	img := Thumbnail(src, maxSize)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("encoding png: %w", err)
	}
	if buf.Len() <= MaxPNGBytes {
		return buf.Bytes(), "png", nil
	}

	buf.Reset()
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), "jpeg", nil
}

// DataURL renders an image as an inline JPEG thumbnail.
func DataURL(data []byte, maxSize, quality int) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Thumbnail(src, maxSize), &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// decodeDataURL returns the payload of a base64 data URL.
func decodeDataURL(ref string) ([]byte, error) {
	_, payload, ok := bytes.Cut([]byte(ref), []byte(";base64,"))
	if !ok {
		return nil, fmt.Errorf("not a base64 data URL")
	}
	return base64.StdEncoding.DecodeString(string(payload))
}
