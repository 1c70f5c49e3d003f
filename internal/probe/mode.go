package probe

import "time"

// DefaultQuery is the ranking prompt.
const DefaultQuery = "Spiegami brevemente l'importanza di Dante Alighieri per la lingua italiana e la cultura europea."

// Mode parameterizes a probe run.
type Mode struct {
	Name      string
	Prompt    string
	MaxTokens int
	Timeout   time.Duration
	Delay     time.Duration

	// RequireContent fails replies whose content is blank.
	RequireContent bool
}

// QuickTest checks that a model answers at all.
var QuickTest = Mode{
	Name:      "test",
	Prompt:    "hi",
	MaxTokens: 5,
	Timeout:   10 * time.Second,
	Delay:     5 * time.Second,
}

// Rank measures how fast a model produces a real answer.
var Rank = Mode{
	Name:           "rank",
	Prompt:         DefaultQuery,
	MaxTokens:      500,
	Timeout:        30 * time.Second,
	Delay:          2 * time.Second,
	RequireContent: true,
}
