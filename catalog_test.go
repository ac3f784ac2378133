package agent

import (
	"slices"
	"strings"
	"testing"
	"time"
)

const catalogJSON = `{
  "framesize": [124, 93],
  "overlayCount": 2,
  "sounds": ["1", "2"],
  "animations": {
    "Wave": {
      "frames": [
        {"duration": 100, "images": [[0, 0]], "sound": "1"},
        {"duration": 150, "images": [[124, 0], [248, 0]], "exitBranch": 2,
         "branching": {"branches": [{"frameIndex": 0, "weight": 40}]}},
        {"duration": 100}
      ],
      "useExitBranching": true
    },
    "IdleBlink": {"frames": [{"duration": 200, "images": [[0, 93]]}]},
    "Greeting": {"frames": [{"duration": 200}], "idle": true},
    "IdleButNot": {"frames": [{"duration": 200}], "idle": false}
  }
}`

func TestParseCatalog(t *testing.T) {
	cat, err := ParseCatalog([]byte(catalogJSON))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	if got := cat.FrameSize(); got != (Vec2{X: 124, Y: 93}) {
		t.Errorf("FrameSize = %v, want {124 93}", got)
	}
	if cat.OverlayCount() != 2 {
		t.Errorf("OverlayCount = %d, want 2", cat.OverlayCount())
	}
	if want := []string{"Greeting", "IdleBlink", "IdleButNot", "Wave"}; !slices.Equal(cat.Names(), want) {
		t.Errorf("Names = %v, want %v", cat.Names(), want)
	}
	if want := []string{"Greeting", "IdleBlink"}; !slices.Equal(cat.IdleNames(), want) {
		t.Errorf("IdleNames = %v, want %v", cat.IdleNames(), want)
	}

	wave, ok := cat.Clip("Wave")
	if !ok {
		t.Fatal("Wave missing")
	}
	if !wave.UseExitBranching {
		t.Error("Wave should use exit branching")
	}
	if len(wave.Frames) != 3 {
		t.Fatalf("Wave frames = %d, want 3", len(wave.Frames))
	}
	f0, f1, f2 := wave.Frames[0], wave.Frames[1], wave.Frames[2]
	if f0.Duration != 100*time.Millisecond || f0.Sound != "1" {
		t.Errorf("frame 0 = %+v", f0)
	}
	if len(f1.Images) != 2 || f1.Images[1] != (Offset{X: 248, Y: 0}) {
		t.Errorf("frame 1 images = %v", f1.Images)
	}
	if !f1.HasExitBranch || f1.ExitBranch != 2 {
		t.Errorf("frame 1 exit branch = %v %d, want true 2", f1.HasExitBranch, f1.ExitBranch)
	}
	if len(f1.Branches) != 1 || f1.Branches[0] != (Branch{Weight: 40, FrameIndex: 0}) {
		t.Errorf("frame 1 branches = %v", f1.Branches)
	}
	if f0.HasExitBranch || f0.Branches != nil || f2.Images != nil {
		t.Error("absent fields should stay empty")
	}

	if !cat.Has("Wave") || cat.Has("Nope") {
		t.Error("Has mismatch")
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"bad json", `{`, "parse"},
		{"no animations", `{"framesize": [1, 1], "animations": {}}`, "no animations"},
		{"no frames", `{"animations": {"A": {"frames": []}}}`, "no frames"},
		{"zero duration", `{"animations": {"A": {"frames": [{"duration": 0}]}}}`, "duration"},
		{"exit out of range", `{"animations": {"A": {"frames": [{"duration": 1, "exitBranch": 5}]}}}`, "exit branch"},
		{"branch out of range", `{"animations": {"A": {"frames": [{"duration": 1, "branching": {"branches": [{"frameIndex": -1, "weight": 10}]}}]}}}`, "branch target"},
		{"negative weight", `{"animations": {"A": {"frames": [{"duration": 1, "branching": {"branches": [{"frameIndex": 0, "weight": -1}]}}]}}}`, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.json))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog(Vec2{}, 1, nil, []Clip{
		{Name: "A", Frames: frames(1)},
		{Name: "A", Frames: frames(1)},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("err = %v, want duplicate error", err)
	}
}

func TestNewCatalogCopiesFrames(t *testing.T) {
	fs := frames(2)
	cat := mustCatalog(t, Clip{Name: "A", Frames: fs})
	fs[0].Duration = time.Hour

	clip, _ := cat.Clip("A")
	if clip.Frames[0].Duration == time.Hour {
		t.Error("catalog should not share the caller's frame slice")
	}
	if cat.OverlayCount() != 1 {
		t.Errorf("OverlayCount = %d, want 1", cat.OverlayCount())
	}
}
