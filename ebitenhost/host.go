// Package ebitenhost runs an agent inside an Ebitengine window. Host is the
// agent's presentation surface and an [ebiten.Game].
package ebitenhost

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/agent"
)

// layerState is the sprite shown on one overlay layer.
type layerState struct {
	offset  agent.Offset
	visible bool
}

// Host draws an agent with Ebitengine and feeds it mouse input.
type Host struct {
	agent   *agent.Agent
	pointer *agent.PointerTracker
	sheet   *ebiten.Image
	frame   agent.Vec2
	font    *balloonFace

	layers   []layerState
	pos      agent.Vec2
	shown    bool
	balloon  balloonState
	viewport agent.Rect

	// Background fills the screen before the agent is drawn. Nil leaves
	// the screen untouched, for transparent windows.
	Background color.Color

	// OnUpdate, if set, runs once per tick before the agent's clock
	// advances.
	OnUpdate func(h *Host) error
}

// New decodes the sprite sheet and sounds of assets and builds the agent.
// The agent starts hidden; call Agent().Show().
func New(assets *agent.Assets, cfg agent.Config) (*Host, error) {
	img, _, err := image.Decode(bytes.NewReader(assets.Sheet))
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: failed to decode sprite sheet: %w", err)
	}
	bank, err := NewSoundBank(audioContext(), assets.Sounds)
	if err != nil {
		return nil, err
	}
	font, err := newBalloonFace()
	if err != nil {
		return nil, err
	}

	w, h := ebiten.WindowSize()
	host := &Host{
		sheet:    ebiten.NewImageFromImage(img),
		frame:    assets.Catalog.FrameSize(),
		font:     font,
		layers:   make([]layerState, assets.Catalog.OverlayCount()),
		viewport: agent.Rect{Width: float64(w), Height: float64(h)},
	}
	a, err := agent.New(assets.Resources(bank), host, cfg)
	if err != nil {
		return nil, err
	}
	host.agent = a
	host.pointer = agent.NewPointerTracker(a, a.Clock())
	return host, nil
}

// Agent returns the hosted agent.
func (h *Host) Agent() *agent.Agent { return h.agent }

// Pointer returns the tracker fed by the mouse. Its Inject methods script
// pointer input.
func (h *Host) Pointer() *agent.PointerTracker { return h.pointer }

// --- agent.Surface ---

func (h *Host) SetOverlayFrame(layer int, offset agent.Offset, visible bool) {
	if layer < 0 || layer >= len(h.layers) {
		return
	}
	h.layers[layer] = layerState{offset: offset, visible: visible}
}

func (h *Host) SetPosition(x, y float64) { h.pos = agent.Vec2{X: x, Y: y} }
func (h *Host) Viewport() agent.Rect     { return h.viewport }
func (h *Host) Show()                    { h.shown = true }
func (h *Host) Hide()                    { h.shown = false }

// --- ebiten.Game ---

// Update samples the mouse and advances the agent by one tick.
func (h *Host) Update() error {
	if h.OnUpdate != nil {
		if err := h.OnUpdate(h); err != nil {
			return err
		}
	}
	x, y := ebiten.CursorPosition()
	h.pointer.Sample(float64(x), float64(y), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	h.agent.Update(tickDuration(ebiten.TPS()))
	return nil
}

// Draw renders the character layers in order, then the balloon.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.Background != nil {
		screen.Fill(h.Background)
	}
	if h.shown {
		fw, fh := int(h.frame.X), int(h.frame.Y)
		for _, l := range h.layers {
			if !l.visible {
				continue
			}
			r := image.Rect(l.offset.X, l.offset.Y, l.offset.X+fw, l.offset.Y+fh)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(h.pos.X, h.pos.Y)
			screen.DrawImage(h.sheet.SubImage(r).(*ebiten.Image), op)
		}
	}
	h.drawBalloon(screen)
}

// Layout uses the window size as the viewport and keeps the agent inside
// it when the window is resized.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := agent.Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if vp != h.viewport {
		h.viewport = vp
		h.agent.Reposition()
	}
	return outsideWidth, outsideHeight
}

// tickDuration converts ticks per second to the time one tick covers.
func tickDuration(tps int) time.Duration {
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Second / time.Duration(tps)
}
