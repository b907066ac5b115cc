package imaging

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
)

const (
	MaxUploadBytes = 5 << 20
	MaxSide        = 512
	Quality        = 80
	ContentType    = "image/webp"
)

var ErrInvalidImage = httperr.Validation("invalid_image", "file must be a jpeg, png or webp image")

// ToWebP decodes an uploaded photo, fits it inside MaxSide x MaxSide and
// re-encodes it as webp.
func ToWebP(raw []byte) ([]byte, error) {
	if len(raw) == 0 || len(raw) > MaxUploadBytes {
		return nil, httperr.Validation("invalid_image_size", "image must be between 1 byte and 5 MB")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrInvalidImage
	}

	img := Fit(src, MaxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: Quality}); err != nil {
		return nil, httperr.Internal("image_encode_failed", "could not encode image", err)
	}
	return buf.Bytes(), nil
}

// Fit scales src down so neither dimension exceeds side. Smaller images are
// returned unchanged.
func Fit(src image.Image, side int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= side && h <= side {
		return src
	}

	nw, nh := side, side
	if w > h {
		nh = h * side / w
	} else {
		nw = w * side / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
