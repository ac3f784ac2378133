package ebitenhost

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/agent"
)

// Balloon drawing constants.
const (
	balloonFontSize = 13
	balloonPadding  = 8
	balloonMaxWidth = 200 // text column width before padding
	balloonTip      = 8   // size of the tip pointing at the character
)

var (
	balloonFill   = color.RGBA{R: 0xff, G: 0xff, B: 0xc6, A: 0xff}
	balloonBorder = color.RGBA{A: 0xff}
	balloonInk    = color.RGBA{A: 0xff}
)

// balloonFace holds the font used for balloon text.
type balloonFace struct {
	face *text.GoTextFace
	lh   float64
}

func newBalloonFace() (*balloonFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: failed to load balloon font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: balloonFontSize}
	m := face.Metrics()
	return &balloonFace{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

func (f *balloonFace) width(s string) float64 {
	w, _ := text.Measure(s, f.face, f.lh)
	return w
}

// wrapLines breaks s into lines no wider than maxWidth as measured by width.
// A single word wider than maxWidth gets a line of its own.
func wrapLines(s string, maxWidth float64, width func(string) float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if width(next) > maxWidth {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(lines, cur)
}

// balloonSize returns the outer size of a balloon showing lines.
func balloonSize(lines []string, lineHeight float64, width func(string) float64) agent.Vec2 {
	w := 0.0
	for _, l := range lines {
		w = max(w, width(l))
	}
	h := float64(max(len(lines), 1)) * lineHeight
	return agent.Vec2{X: w + 2*balloonPadding, Y: h + 2*balloonPadding}
}

// balloonState is what the host knows about the balloon between frames.
type balloonState struct {
	visible   bool
	lines     []string
	size      agent.Vec2
	placement agent.Placement
}

func (h *Host) ShowBalloon() { h.balloon.visible = true }
func (h *Host) HideBalloon() { h.balloon.visible = false }

func (h *Host) SetBalloonText(s string) {
	h.balloon.lines = wrapLines(s, balloonMaxWidth, h.font.width)
}

func (h *Host) MeasureBalloon(s string) agent.Vec2 {
	size := balloonSize(wrapLines(s, balloonMaxWidth, h.font.width), h.font.lh, h.font.width)
	h.balloon.size = size
	return size
}

func (h *Host) PlaceBalloon(p agent.Placement) { h.balloon.placement = p }

func (h *Host) drawBalloon(screen *ebiten.Image) {
	b := &h.balloon
	if !b.visible {
		return
	}
	x, y := float32(b.placement.X), float32(b.placement.Y)
	w, ht := float32(b.size.X), float32(b.size.Y)

	vector.FillRect(screen, x, y, w, ht, balloonFill, false)
	vector.StrokeRect(screen, x, y, w, ht, 1, balloonBorder, false)
	h.drawTip(screen, x, y, w, ht)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x)+balloonPadding, float64(y)+balloonPadding)
	op.ColorScale.ScaleWithColor(balloonInk)
	op.LineSpacing = h.font.lh
	text.Draw(screen, strings.Join(b.lines, "\n"), h.font.face, op)
}

// drawTip draws the small tab on the balloon edge facing the character.
func (h *Host) drawTip(screen *ebiten.Image, x, y, w, ht float32) {
	var tx, ty float32
	switch h.balloon.placement.Corner {
	case agent.CornerTopLeft:
		tx, ty = x+w-3*balloonTip, y+ht
	case agent.CornerTopRight:
		tx, ty = x+2*balloonTip, y+ht
	case agent.CornerBottomLeft:
		tx, ty = x+w-3*balloonTip, y-balloonTip
	case agent.CornerBottomRight:
		tx, ty = x+2*balloonTip, y-balloonTip
	}
	vector.FillRect(screen, tx, ty, balloonTip, balloonTip, balloonFill, false)
	vector.StrokeRect(screen, tx, ty, balloonTip, balloonTip, 1, balloonBorder, false)
}
