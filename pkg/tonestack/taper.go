package tonestack

import (
	"fmt"
	"strings"
)

// Taper maps a knob rotation on the 0..10 dial to an effective rotation.
type Taper string

const (
	Linear Taper = "linear"
	LogA   Taper = "logA"
	LogB   Taper = "logB"
)

func ParseTaper(s string) (Taper, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lin", "linear":
		return Linear, nil
	case "loga", "a", "log":
		return LogA, nil
	case "logb", "b":
		return LogB, nil
	}
	return "", fmt.Errorf("unknown taper %q", s)
}

// Rotation applies the two-segment tapers of the classic tone stack
// calculator. Anything unrecognised is linear.
func (t Taper) Rotation(r float64) float64 {
	switch t {
	case LogA:
		if r < 5 {
			return 0.6 * r
		}
		return 1.4*r - 4
	case LogB:
		if r < 5 {
			return 0.2 * r
		}
		return 1.8*r - 8
	}
	return r
}

// Pot is a knob setting on the 0..10 dial.
type Pot struct {
	Rotation float64
	Taper    Taper
}

// Position is the wiper position in [0,1].
func (p Pot) Position() float64 {
	return clamp01(p.Taper.Rotation(p.Rotation) / 10)
}
