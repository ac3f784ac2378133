package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// scriptStep is one action of a script.
type scriptStep struct {
	Action string  `json:"action"`
	Text   string  `json:"text,omitempty"`
	Hold   bool    `json:"hold,omitempty"`
	Name   string  `json:"name,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	MS     *int    `json:"ms,omitempty"`
	Fast   bool    `json:"fast,omitempty"`
}

// scriptFile is the top-level JSON structure of a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"speak": true, "move": true, "gesture": true, "play": true,
	"delay": true, "animate": true, "show": true, "hide": true,
}

// Script is a parsed sequence of agent actions, such as a guided tour.
type Script struct {
	steps []scriptStep
}

// LoadScript parses a JSON script:
//
//	{"steps": [
//	  {"action": "show"},
//	  {"action": "move", "x": 100, "y": 50, "ms": 500},
//	  {"action": "speak", "text": "Hello there", "hold": false},
//	  {"action": "gesture", "x": 0, "y": 0},
//	  {"action": "play", "name": "Wave"},
//	  {"action": "delay", "ms": 1000},
//	  {"action": "animate"},
//	  {"action": "hide", "fast": true}
//	]}
//
// Unknown actions and steps missing their required fields are rejected.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("agent: parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("agent: parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("agent: parse script: step %d: unknown action %q", i, st.Action)
		}
		switch {
		case st.Action == "speak" && st.Text == "":
			return nil, fmt.Errorf("agent: parse script: step %d: speak needs text", i)
		case st.Action == "play" && st.Name == "":
			return nil, fmt.Errorf("agent: parse script: step %d: play needs a name", i)
		case st.MS != nil && *st.MS < 0:
			return nil, fmt.Errorf("agent: parse script: step %d: negative ms", i)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Len returns the number of steps.
func (s *Script) Len() int { return len(s.steps) }

// Run hands every step to a in order. Actions that queue (speak, move,
// gesture, play, delay, animate) run one after another; show and hide
// take effect when called. It returns the number of steps the agent
// refused, such as plays of unknown clips.
func (s *Script) Run(a *Agent) int {
	refused := 0
	for _, st := range s.steps {
		if !s.run(a, st) {
			refused++
		}
	}
	return refused
}

func (s *Script) run(a *Agent, st scriptStep) bool {
	switch st.Action {
	case "speak":
		a.Speak(st.Text, st.Hold)
	case "move":
		d := a.cfg.MoveDuration
		if st.MS != nil {
			d = time.Duration(*st.MS) * time.Millisecond
		}
		a.MoveTo(st.X, st.Y, d)
	case "gesture":
		return a.GestureAt(st.X, st.Y)
	case "play":
		if st.MS != nil {
			return a.PlayWithTimeout(st.Name, time.Duration(*st.MS)*time.Millisecond, nil)
		}
		return a.Play(st.Name)
	case "delay":
		var d time.Duration
		if st.MS != nil {
			d = time.Duration(*st.MS) * time.Millisecond
		}
		a.Delay(d)
	case "animate":
		return a.Animate()
	case "show":
		if st.Fast {
			a.ShowFast()
			return true
		}
		return a.Show()
	case "hide":
		a.Hide(st.Fast, nil)
	}
	return true
}
