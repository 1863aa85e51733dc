package mandala

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildPromptContainsTopicAndStyleMarkers(t *testing.T) {
	topics := []string{"peace", "nature", "sacred fire", "Sabiduría"}
	for _, topic := range topics {
		got := BuildPrompt(topic)
		if !strings.Contains(got, topic) {
			t.Fatalf("prompt for %q does not contain the topic: %s", topic, got)
		}
		markers := []string{
			"black and white",
			"symmetrical",
			"sacred geometry",
			"meditation and coloring",
			"High contrast",
		}
		for _, marker := range markers {
			if !strings.Contains(got, marker) {
				t.Fatalf("prompt for %q missing marker %q", topic, marker)
			}
		}
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	if BuildPrompt("wisdom") != BuildPrompt("wisdom") {
		t.Fatalf("prompt is not deterministic")
	}
}

func TestBuildPromptTrimsTopic(t *testing.T) {
	got := BuildPrompt("  strength  ")
	if !strings.Contains(got, "'strength'") {
		t.Fatalf("topic not trimmed before interpolation: %s", got)
	}
}

func TestValidateTopic(t *testing.T) {
	cases := []struct {
		name  string
		topic string
		want  error
	}{
		{"ok", "peace", nil},
		{"ok with spaces", "  inner peace  ", nil},
		{"empty", "", ErrEmptyTopic},
		{"whitespace only", "   ", ErrEmptyTopic},
		{"at limit", strings.Repeat("a", MaxTopicLength), nil},
		{"over limit", strings.Repeat("a", MaxTopicLength+1), ErrTopicTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTopic(tc.topic)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ValidateTopic(%q) = %v, want %v", tc.topic, err, tc.want)
			}
		})
	}
}
