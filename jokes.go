package agent

import (
	_ "embed"
	"encoding/json"
	"slices"
)

//go:embed defaultjokes.json
var defaultJokesJSON []byte

var defaultJokes = mustParseJokes(defaultJokesJSON)

func mustParseJokes(data []byte) []string {
	var jokes []string
	if err := json.Unmarshal(data, &jokes); err != nil {
		panic("agent: built-in jokes: " + err.Error())
	}
	return jokes
}

// DefaultJokes returns a copy of the built-in joke corpus used when an
// agent directory ships none.
func DefaultJokes() []string {
	return slices.Clone(defaultJokes)
}
