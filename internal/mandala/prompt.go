package mandala

import (
	"errors"
	"fmt"
	"strings"
)

// MaxTopicLength bounds the inspiration word accepted from the form.
const MaxTopicLength = 50

var (
	ErrEmptyTopic   = errors.New("mandala: inspiration word is required")
	ErrTopicTooLong = fmt.Errorf("mandala: inspiration word exceeds %d characters", MaxTopicLength)
)

// ValidateTopic checks the inspiration word before any prompt is built or any
// remote call is issued.
func ValidateTopic(topic string) error {
	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		return ErrEmptyTopic
	}
	if len([]rune(trimmed)) > MaxTopicLength {
		return ErrTopicTooLong
	}
	return nil
}

// BuildPrompt interpolates the inspiration word into the fixed mandala
// instruction for the text-to-image model. Deterministic for any non-empty
// topic; validation is the caller's job.
func BuildPrompt(topic string) string {
	topic = strings.TrimSpace(topic)
	lines := []string{
		fmt.Sprintf("Create a beautiful, intricate black and white mandala design inspired by the word '%s'.", topic),
		"The mandala should be:",
		"- Completely black and white (no colors, no grayscale - pure black lines on white background)",
		"- Perfectly symmetrical and circular",
		"- Featuring intricate geometric patterns, sacred geometry, and detailed ornamental elements",
		fmt.Sprintf("- Incorporating symbolic elements related to '%s'", topic),
		"- High contrast with crisp, clean lines",
		"- Suitable for meditation and coloring",
		"- Professional quality with fine details",
		"- Centered on a pure white background",
		"",
		"Style: Traditional mandala art, spiritual, meditative, geometric, ornate, detailed line art",
	}
	return strings.Join(lines, "\n")
}
