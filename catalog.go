package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// idlePrefix marks idle clips in catalogs that predate the explicit flag.
const idlePrefix = "Idle"

// Branch is one weighted alternative for the next frame.
type Branch struct {
	Weight     float64
	FrameIndex int
}

// Frame is one sprite pose of a clip.
type Frame struct {
	Duration time.Duration
	Images   []Offset // one sprite-sheet offset per overlay layer
	Sound    string   // sound id, empty for none
	Branches []Branch // nil when the frame does not branch

	ExitBranch    int
	HasExitBranch bool
}

// Clip is a named, immutable frame sequence.
type Clip struct {
	Name             string
	Frames           []Frame
	UseExitBranching bool // hold the terminal pose until an exit is requested
	Idle             bool // eligible as an idle filler
}

// last returns the index of the final frame.
func (c *Clip) last() int {
	return len(c.Frames) - 1
}

// Catalog maps clip names to clips plus the sprite-sheet globals. It is
// built once and never mutated.
type Catalog struct {
	frameSize    Vec2
	overlayCount int
	sounds       []string
	clips        map[string]*Clip
	names        []string
}

// Has reports whether name is a known clip.
func (c *Catalog) Has(name string) bool {
	_, ok := c.clips[name]
	return ok
}

// Clip returns the clip for name.
func (c *Catalog) Clip(name string) (*Clip, bool) {
	clip, ok := c.clips[name]
	return clip, ok
}

// Names returns every clip name in sorted order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// IdleNames returns the names of idle-eligible clips in sorted order.
func (c *Catalog) IdleNames() []string {
	var out []string
	for _, n := range c.names {
		if c.clips[n].Idle {
			out = append(out, n)
		}
	}
	return out
}

// FrameSize returns the width and height of one sprite cell.
func (c *Catalog) FrameSize() Vec2 { return c.frameSize }

// OverlayCount returns the number of stacked overlay layers.
func (c *Catalog) OverlayCount() int { return c.overlayCount }

// Sounds returns the sound ids the catalog references.
func (c *Catalog) Sounds() []string { return slices.Clone(c.sounds) }

// NewCatalog validates clips and builds a catalog. overlayCount below 1 is
// treated as 1.
func NewCatalog(frameSize Vec2, overlayCount int, sounds []string, clips []Clip) (*Catalog, error) {
	if len(clips) == 0 {
		return nil, errors.New("agent: catalog has no animations")
	}
	if overlayCount < 1 {
		overlayCount = 1
	}
	cat := &Catalog{
		frameSize:    frameSize,
		overlayCount: overlayCount,
		sounds:       slices.Clone(sounds),
		clips:        make(map[string]*Clip, len(clips)),
	}
	for i := range clips {
		clip := clips[i]
		clip.Frames = slices.Clone(clip.Frames)
		if clip.Name == "" {
			return nil, fmt.Errorf("agent: animation %d has no name", i)
		}
		if _, dup := cat.clips[clip.Name]; dup {
			return nil, fmt.Errorf("agent: duplicate animation %q", clip.Name)
		}
		if err := validateClip(&clip); err != nil {
			return nil, err
		}
		cat.clips[clip.Name] = &clip
		cat.names = append(cat.names, clip.Name)
	}
	slices.Sort(cat.names)
	return cat, nil
}

func validateClip(clip *Clip) error {
	n := len(clip.Frames)
	if n == 0 {
		return fmt.Errorf("agent: animation %q has no frames", clip.Name)
	}
	for i, f := range clip.Frames {
		if f.Duration <= 0 {
			return fmt.Errorf("agent: animation %q frame %d: duration must be positive", clip.Name, i)
		}
		if f.HasExitBranch && (f.ExitBranch < 0 || f.ExitBranch >= n) {
			return fmt.Errorf("agent: animation %q frame %d: exit branch %d out of range", clip.Name, i, f.ExitBranch)
		}
		for _, b := range f.Branches {
			if b.Weight < 0 {
				return fmt.Errorf("agent: animation %q frame %d: negative branch weight", clip.Name, i)
			}
			if b.FrameIndex < 0 || b.FrameIndex >= n {
				return fmt.Errorf("agent: animation %q frame %d: branch target %d out of range", clip.Name, i, b.FrameIndex)
			}
		}
	}
	return nil
}

// --- JSON structure types ---

type jsonCatalog struct {
	FrameSize    [2]float64          `json:"framesize"`
	OverlayCount int                 `json:"overlayCount"`
	Sounds       []string            `json:"sounds"`
	Animations   map[string]jsonClip `json:"animations"`
}

type jsonClip struct {
	Frames           []jsonFrame `json:"frames"`
	UseExitBranching bool        `json:"useExitBranching"`
	Idle             *bool       `json:"idle"`
}

type jsonFrame struct {
	Duration   float64        `json:"duration"`
	Images     [][2]int       `json:"images"`
	Sound      string         `json:"sound"`
	Branching  *jsonBranching `json:"branching"`
	ExitBranch *int           `json:"exitBranch"`
}

type jsonBranching struct {
	Branches []jsonBranch `json:"branches"`
}

type jsonBranch struct {
	FrameIndex int     `json:"frameIndex"`
	Weight     float64 `json:"weight"`
}

// ParseCatalog parses the JSON animation catalog resource. Clips without
// an explicit "idle" field are idle-eligible when their name starts with
// "Idle".
func ParseCatalog(jsonData []byte) (*Catalog, error) {
	var raw jsonCatalog
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return nil, fmt.Errorf("agent: failed to parse catalog JSON: %w", err)
	}

	clips := make([]Clip, 0, len(raw.Animations))
	for name, jc := range raw.Animations {
		clips = append(clips, clipFromJSON(name, jc))
	}

	return NewCatalog(
		Vec2{X: raw.FrameSize[0], Y: raw.FrameSize[1]},
		raw.OverlayCount,
		raw.Sounds,
		clips,
	)
}

func clipFromJSON(name string, jc jsonClip) Clip {
	clip := Clip{
		Name:             name,
		UseExitBranching: jc.UseExitBranching,
		Idle:             strings.HasPrefix(name, idlePrefix),
		Frames:           make([]Frame, len(jc.Frames)),
	}
	if jc.Idle != nil {
		clip.Idle = *jc.Idle
	}
	for i, jf := range jc.Frames {
		f := Frame{
			Duration: time.Duration(jf.Duration * float64(time.Millisecond)),
			Sound:    jf.Sound,
		}
		for _, xy := range jf.Images {
			f.Images = append(f.Images, Offset{X: xy[0], Y: xy[1]})
		}
		if jf.Branching != nil {
			f.Branches = make([]Branch, len(jf.Branching.Branches))
			for j, b := range jf.Branching.Branches {
				f.Branches[j] = Branch{Weight: b.Weight, FrameIndex: b.FrameIndex}
			}
		}
		if jf.ExitBranch != nil {
			f.ExitBranch = *jf.ExitBranch
			f.HasExitBranch = true
		}
		clip.Frames[i] = f
	}
	return clip
}
