package agent

// OverlayRenderer receives per-layer sprite instructions from the Animator.
// Layer 0 is the base layer. A hidden layer ignores offset.
type OverlayRenderer interface {
	SetOverlayFrame(layer int, offset Offset, visible bool)
}

// Sound is a preloaded, playable sound effect.
type Sound interface {
	Play()
}

// SoundBank maps sound ids to preloaded sounds. Ids missing from the bank
// are skipped silently.
type SoundBank map[string]Sound

// Animator steps a sprite through the frames of one clip at a time. It
// holds at most one live frame timer.
//
// The frame loop never stops on its own: once started it keeps stepping on
// the current frame's duration, holding the last frame of a finished clip,
// until Pause cancels the timer.
type Animator struct {
	catalog  *Catalog
	clock    *Clock
	renderer OverlayRenderer
	sounds   SoundBank
	rng      Random
	debug    bool

	clip    *Clip
	name    string
	index   int
	frame   *Frame
	exiting bool
	held    bool
	onState StateFunc
	shows   uint64

	started bool
	timer   *Timer
}

// NewAnimator creates an animator over catalog. renderer and sounds may be
// nil; a nil rng draws from math/rand/v2.
func NewAnimator(catalog *Catalog, clock *Clock, renderer OverlayRenderer, sounds SoundBank, rng Random) *Animator {
	if rng == nil {
		rng = defaultRand{}
	}
	return &Animator{
		catalog:  catalog,
		clock:    clock,
		renderer: renderer,
		sounds:   sounds,
		rng:      rng,
	}
}

// Has reports whether the catalog contains name.
func (a *Animator) Has(name string) bool {
	return a.catalog.Has(name)
}

// Current returns the name of the clip being played, or "" before the
// first Show.
func (a *Animator) Current() string {
	return a.name
}

// CurrentClip returns the clip being played, or nil.
func (a *Animator) CurrentClip() *Clip {
	return a.clip
}

// FrameIndex returns the index of the current frame.
func (a *Animator) FrameIndex() int {
	return a.index
}

// Shows counts successful Show calls. A caller that saves it can tell
// later whether the clip it started is still the one on screen.
func (a *Animator) Shows() uint64 {
	return a.shows
}

// Exiting reports whether an exit has been requested for the current clip.
func (a *Animator) Exiting() bool {
	return a.exiting
}

// Show switches to the clip called name, restarting from its first frame at
// the next step. It returns false and changes nothing when name is unknown.
// The first Show starts the frame loop; later ones let the running timer
// pick up the new clip so the current frame is never cut short.
func (a *Animator) Show(name string, onState StateFunc) bool {
	clip, ok := a.catalog.Clip(name)
	if !ok {
		if a.debug {
			debugf("animator: unknown animation %q", name)
		}
		return false
	}

	a.shows++
	a.exiting = false
	a.clip = clip
	a.name = name
	a.index = 0
	a.frame = nil
	a.held = false
	a.onState = onState

	if !a.started {
		a.started = true
		a.step()
	}
	return true
}

// Exit asks the current clip to leave through its exit branches. The
// request only affects the next frame decision.
func (a *Animator) Exit() {
	a.exiting = true
}

// Pause cancels the pending frame timer, keeping the current frame.
func (a *Animator) Pause() {
	a.timer.Stop()
	a.timer = nil
}

// Resume steps immediately from the retained frame and re-arms the timer.
// It does not wait out the remainder of the paused frame.
func (a *Animator) Resume() {
	a.step()
}

func (a *Animator) nextIndex() int {
	if a.frame == nil {
		return 0
	}
	f := a.frame
	if a.exiting && f.HasExitBranch {
		return f.ExitBranch
	}
	if f.Branches != nil {
		rnd := a.rng.Float64() * 100
		for _, b := range f.Branches {
			if rnd <= b.Weight {
				return b.FrameIndex
			}
			rnd -= b.Weight
		}
	}
	return a.index + 1
}

func (a *Animator) step() {
	if a.clip == nil {
		return
	}
	clip := a.clip
	next := min(a.nextIndex(), clip.last())

	changed := a.frame == nil || a.index != next
	a.index = next

	// Hold the previous pose on the terminal frame of an exit-branching clip
	// until an exit is requested. Releasing a hold in place counts as a
	// frame change so the clip still reports EXITED.
	atLast := a.index == clip.last()
	hold := atLast && clip.UseExitBranching && !a.exiting
	if a.frame == nil || !hold {
		a.frame = &clip.Frames[a.index]
	}
	if atLast && a.held && !hold {
		changed = true
	}
	a.held = hold

	a.draw()
	a.playSound()

	a.timer.Stop()
	a.timer = a.clock.AfterFunc(a.frame.Duration, a.step)

	if a.onState != nil && changed && atLast {
		if clip.UseExitBranching && !a.exiting {
			a.onState(a.name, StateWaiting)
		} else {
			a.onState(a.name, StateExited)
		}
	}
}

func (a *Animator) draw() {
	if a.renderer == nil {
		return
	}
	images := a.frame.Images
	for i := 0; i < a.catalog.overlayCount; i++ {
		if i < len(images) {
			a.renderer.SetOverlayFrame(i, images[i], true)
		} else {
			a.renderer.SetOverlayFrame(i, Offset{}, false)
		}
	}
}

func (a *Animator) playSound() {
	id := a.frame.Sound
	if id == "" {
		return
	}
	if s, ok := a.sounds[id]; ok && s != nil {
		s.Play()
	} else if a.debug {
		debugf("animator: sound %q not loaded", id)
	}
}
