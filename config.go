package agent

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the timing, spacing and behavior knobs of an Agent. The zero
// value of any field means "use the default".
type Config struct {
	// WordInterval is the delay between revealed words. Default 200ms.
	WordInterval time.Duration `yaml:"word_interval"`
	// BalloonCloseDelay is how long a finished balloon stays up. Default 2s.
	BalloonCloseDelay time.Duration `yaml:"balloon_close_delay"`
	// BalloonMargin is the gap between the balloon and the character. Default 15.
	BalloonMargin float64 `yaml:"balloon_margin"`
	// ViewportMargin keeps the balloon and the dragged character this far
	// from the viewport edge. Default 5.
	ViewportMargin float64 `yaml:"viewport_margin"`

	PlayTimeout      time.Duration `yaml:"play_timeout"`       // default 5s
	DelayDuration    time.Duration `yaml:"delay"`              // default 250ms
	MoveDuration     time.Duration `yaml:"move_duration"`      // default 1s
	DragPollInterval time.Duration `yaml:"drag_poll_interval"` // default 10ms
	MotionInterval   time.Duration `yaml:"motion_interval"`    // default 16ms

	// MirrorDirections swaps Left and Right when resolving gesture and move
	// clips, for asset sets named from the character's point of view.
	MirrorDirections bool `yaml:"mirror_directions"`

	// Debug enables log output for non-fatal misses such as unknown clips
	// and unloaded sounds.
	Debug bool `yaml:"debug"`

	// Clock drives every timer. Nil creates a private clock.
	Clock *Clock `yaml:"-"`
	// Rand is the source of random draws. Nil uses math/rand/v2.
	Rand Random `yaml:"-"`
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return Config{
		WordInterval:      200 * time.Millisecond,
		BalloonCloseDelay: 2000 * time.Millisecond,
		BalloonMargin:     15,
		ViewportMargin:    5,
		PlayTimeout:       5 * time.Second,
		DelayDuration:     250 * time.Millisecond,
		MoveDuration:      time.Second,
		DragPollInterval:  10 * time.Millisecond,
		MotionInterval:    16 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WordInterval <= 0 {
		c.WordInterval = d.WordInterval
	}
	if c.BalloonCloseDelay <= 0 {
		c.BalloonCloseDelay = d.BalloonCloseDelay
	}
	if c.BalloonMargin == 0 {
		c.BalloonMargin = d.BalloonMargin
	}
	if c.ViewportMargin == 0 {
		c.ViewportMargin = d.ViewportMargin
	}
	if c.PlayTimeout == 0 {
		c.PlayTimeout = d.PlayTimeout
	}
	if c.DelayDuration <= 0 {
		c.DelayDuration = d.DelayDuration
	}
	if c.MoveDuration <= 0 {
		c.MoveDuration = d.MoveDuration
	}
	if c.DragPollInterval <= 0 {
		c.DragPollInterval = d.DragPollInterval
	}
	if c.MotionInterval <= 0 {
		c.MotionInterval = d.MotionInterval
	}
	return c
}

// ParseConfig reads a YAML config document. Durations use Go duration
// syntax ("200ms", "2s"). Missing fields take their defaults. A negative
// play_timeout disables the play timeout.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("agent: failed to parse config: %w", err)
	}
	return c.withDefaults(), nil
}
