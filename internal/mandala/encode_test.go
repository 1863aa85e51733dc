package mandala

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"
)

func TestEncodePNGRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 48, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 48; x++ {
			if (x+y)%2 == 0 {
				src.Set(x, y, color.Black)
			} else {
				src.Set(x, y, color.White)
			}
		}
	}

	data := EncodePNG(src)
	if len(data) == 0 {
		t.Fatalf("expected encoded bytes")
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode encoded bytes: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 48 || bounds.Dy() != 32 {
		t.Fatalf("round trip dimensions = %dx%d, want 48x32", bounds.Dx(), bounds.Dy())
	}
}

func TestFilename(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	cases := []struct {
		topic string
		want  string
	}{
		{"peace", "mandala_peace_20250314_092653.png"},
		{"inner peace", "mandala_inner_peace_20250314_092653.png"},
		{"love/", "mandala_love_20250314_092653.png"},
		{"???", "mandala_art_20250314_092653.png"},
	}
	for _, tc := range cases {
		if got := Filename(tc.topic, createdAt); got != tc.want {
			t.Fatalf("Filename(%q) = %q, want %q", tc.topic, got, tc.want)
		}
	}
}
