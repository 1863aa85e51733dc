package mandala

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"time"
)

// EncodePNG serializes a decoded bitmap into lossless PNG bytes suitable for
// client download. Encoding an in-memory image into a buffer cannot fail.
func EncodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// Filename derives the download name from the inspiration word and the
// generation time at second precision: mandala_{topic}_{timestamp}.png.
func Filename(topic string, createdAt time.Time) string {
	return fmt.Sprintf("mandala_%s_%s.png", sanitizeTopic(topic), createdAt.Format("20060102_150405"))
}

// sanitizeTopic keeps the filename header-safe: spaces become underscores and
// anything outside [A-Za-z0-9_-] is dropped.
func sanitizeTopic(topic string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(topic) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "art"
	}
	return b.String()
}
