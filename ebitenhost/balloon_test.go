package ebitenhost

import (
	"slices"
	"testing"
	"time"

	"github.com/phanxgames/agent"
)

// charWidth measures every rune as 10 pixels.
func charWidth(s string) float64 { return float64(len([]rune(s))) * 10 }

func TestWrapLines(t *testing.T) {
	tests := []struct {
		in   string
		max  float64
		want []string
	}{
		{"", 100, nil},
		{"hello", 100, []string{"hello"}},
		{"one two three four", 90, []string{"one two", "three", "four"}},
		{"one two three four", 1000, []string{"one two three four"}},
		{"a verylongwordhere b", 50, []string{"a", "verylongwordhere", "b"}},
		{"  spaced   out  ", 100, []string{"spaced out"}},
	}
	for _, tt := range tests {
		if got := wrapLines(tt.in, tt.max, charWidth); !slices.Equal(got, tt.want) {
			t.Errorf("wrapLines(%q, %v) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestBalloonSize(t *testing.T) {
	got := balloonSize([]string{"abc", "abcdef"}, 15, charWidth)
	want := agent.Vec2{X: 60 + 2*balloonPadding, Y: 30 + 2*balloonPadding}
	if got != want {
		t.Errorf("balloonSize = %v, want %v", got, want)
	}

	empty := balloonSize(nil, 15, charWidth)
	if empty != (agent.Vec2{X: 2 * balloonPadding, Y: 15 + 2*balloonPadding}) {
		t.Errorf("empty balloonSize = %v", empty)
	}
}

func TestMediaKind(t *testing.T) {
	tests := map[string]string{
		"audio/mpeg":  "mpeg",
		"AUDIO/OGG":   "ogg",
		" audio/wav ": "wav",
		"mp3":         "mp3",
		"audio/x-wav": "x-wav",
		"video/mp4":   "video/mp4",
	}
	for in, want := range tests {
		if got := mediaKind(in); got != want {
			t.Errorf("mediaKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodePCMUnsupported(t *testing.T) {
	_, err := decodePCM(SampleRate, agent.AudioData{MediaType: "audio/flac", Data: []byte{1}})
	if err == nil {
		t.Error("decodePCM accepted flac")
	}
}

func TestTickDuration(t *testing.T) {
	tests := []struct {
		tps  int
		want time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
		{-1, time.Second / 60},
	}
	for _, tt := range tests {
		if got := tickDuration(tt.tps); got != tt.want {
			t.Errorf("tickDuration(%d) = %v, want %v", tt.tps, got, tt.want)
		}
	}
}
