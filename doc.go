// Package agent is an animated on-screen assistant character for
// [Ebitengine] programs, in the tradition of the Office assistants.
//
// An [Agent] plays sprite clips from a [Catalog], speaks through a word-by-word
// speech [Balloon], gestures and walks toward points, and can be dragged and
// double-clicked. Actions run one at a time from a queue; whenever the queue
// is empty an idle clip fills the gap.
//
// # Quick start
//
// Load an agent directory and hand it to the Ebitengine host in
// agent/ebitenhost:
//
//	assets, err := agent.LoadResources(ctx, agent.NewCache(), os.DirFS("agents"), "Clippy")
//	// ...
//	host, err := ebitenhost.New(assets, agent.DefaultConfig())
//	// ...
//	a := host.Agent()
//	a.Show()
//	a.Speak("It looks like you're writing a letter.", false)
//	a.MoveTo(100, 50, 500*time.Millisecond)
//	ebiten.RunGame(host)
//
// # Time
//
// Nothing in the package starts goroutines or reads the wall clock. Every
// frame advance, word reveal, auto-hide and drag poll is a [Timer] on the
// agent's [Clock], and the host advances it with [Agent.Update] once per
// tick. Tests drive the clock directly, so timing is exact and
// reproducible.
//
// # Catalogs
//
// A catalog is the agent.json file of an agent directory:
//
//	{
//	  "framesize": [124, 93],
//	  "overlayCount": 1,
//	  "sounds": ["1", "2"],
//	  "animations": {
//	    "Wave": {"frames": [{"duration": 100, "images": [[0, 0]], "sound": "1"}]},
//	    "IdleBlink": {"useExitBranching": true, "frames": [...]}
//	  }
//	}
//
// Frames may carry weighted "branching" and an "exitBranch" used once an
// exit has been requested. Clips are idle fillers when they set "idle" or,
// when the field is absent, when their name starts with "Idle".
//
// [Ebitengine]: https://ebitengine.org
package agent
