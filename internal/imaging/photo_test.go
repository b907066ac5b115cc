package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFitKeepsAspectRatio(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1024, 512))
	got := Fit(src, 512).Bounds()
	if got.Dx() != 512 || got.Dy() != 256 {
		t.Fatalf("got %dx%d", got.Dx(), got.Dy())
	}
}

func TestFitLeavesSmallImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 80))
	if Fit(src, 512) != image.Image(src) {
		t.Fatal("small image should be returned as is")
	}
}

func TestToWebPRejectsGarbage(t *testing.T) {
	_, err := ToWebP([]byte("not an image"))
	if !httperr.Is(err, httperr.KindValidation, "invalid_image") {
		t.Fatalf("got %v", err)
	}

	_, err = ToWebP(nil)
	if !httperr.Is(err, httperr.KindValidation, "invalid_image_size") {
		t.Fatalf("got %v", err)
	}
}

func TestToWebPEncodes(t *testing.T) {
	out, err := ToWebP(pngBytes(t, 600, 300))
	if err != nil {
		t.Fatal(err)
	}
	// RIFF....WEBP
	if len(out) < 12 || string(out[0:4]) != "RIFF" || string(out[8:12]) != "WEBP" {
		t.Fatal("output is not webp")
	}
}
