package ecs

import "github.com/velmik/ecs-arcade/internal/core"

// Time is the simulation clock. Delta is the fixed step in seconds for the
// current tick; Elapsed accumulates simulated (not wall) time.
type Time struct {
	Delta   float64
	Elapsed float64
}

// Score holds the domain counters the demos share. Pong uses Player and
// Opponent, Breakout uses Points and Lives.
type Score struct {
	Player   int
	Opponent int
	Points   int
	Lives    int
}

// Context carries the world's singleton resources into each system run as
// explicit named fields. It replaces type-keyed global resource lookup: a
// system's resource access is visible in its declared Access set and in the
// fields it touches.
type Context struct {
	Time  Time
	Input core.InputSnapshot
	Score Score
}

// NewContext creates a context with an empty input snapshot.
func NewContext() Context {
	return Context{Input: core.NewInputSnapshot()}
}

// Resource identifies one Context field for pipeline access declarations.
type Resource uint8

const (
	ResTime Resource = iota
	ResInput
	ResScore
)

// String returns the resource name used in pipeline error messages.
func (r Resource) String() string {
	switch r {
	case ResTime:
		return "time"
	case ResInput:
		return "input"
	case ResScore:
		return "score"
	default:
		return "unknown"
	}
}
