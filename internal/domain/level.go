package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FloodLevel is a scenario water height in meters.
type FloodLevel float64

// Slider domain. Levels outside [MinLevel, MaxLevel] are rejected; the step
// only constrains slider movement, shared links may carry any in-range value.
const (
	MinLevel     FloodLevel = 0.0
	MaxLevel     FloodLevel = 3.0
	LevelStep    FloodLevel = 0.5
	DefaultLevel FloodLevel = 2.0
)

// ParseLevel parses a query-parameter or slider value.
func ParseLevel(s string) (FloodLevel, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	level := FloodLevel(f)
	if !level.Valid() {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidLevel, s)
	}
	return level, nil
}

// Valid reports whether the level is finite and inside the slider range.
func (l FloodLevel) Valid() bool {
	f := float64(l)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return l >= MinLevel && l <= MaxLevel
}

// String encodes the level the way the address bar carries it: "2", "2.5".
func (l FloodLevel) String() string {
	return strconv.FormatFloat(float64(l), 'f', -1, 64)
}

// PathString encodes the level for API routes, which only match values with
// a decimal point ("2.0", not "2").
func (l FloodLevel) PathString() string {
	s := l.String()
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Step moves the level by n slider steps, snapping to the step grid and
// clamping to the range.
func (l FloodLevel) Step(n int) FloodLevel {
	snapped := math.Round(float64(l)/float64(LevelStep)) * float64(LevelStep)
	next := FloodLevel(snapped + float64(n)*float64(LevelStep))
	switch {
	case next < MinLevel:
		return MinLevel
	case next > MaxLevel:
		return MaxLevel
	}
	return next
}

// Levels returns every slider position from MinLevel to MaxLevel.
func Levels() []FloodLevel {
	n := int((MaxLevel-MinLevel)/LevelStep) + 1
	out := make([]FloodLevel, 0, n)
	for i := range n {
		out = append(out, MinLevel+FloodLevel(i)*LevelStep)
	}
	return out
}
