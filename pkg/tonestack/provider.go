package tonestack

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/edp1096/toy-tonestack/pkg/transfer"
)

var (
	ErrUnknownCircuit   = errors.New("unknown circuit")
	ErrUnknownComponent = errors.New("unknown component")
	ErrBadComponent     = errors.New("component value must be positive and finite")
)

// Provider supplies N(s)/D(s) coefficients, ascending by power of s.
type Provider interface {
	Coefficients() (num, den []float64)
}

// Response adapts a provider to transfer.Response.
func Response(p Provider) transfer.Response {
	num, den := p.Coefficients()
	return transfer.Rational{Num: num, Den: den}
}

// Kinds lists the names accepted by New.
func Kinds() []string {
	kinds := make([]string, 0, len(builders))
	for k := range builders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

type builder struct {
	defaults func() map[string]float64
	pots     []string
	build    func(v map[string]float64, pos map[string]float64) Provider
}

var builders = map[string]builder{
	"fender": {
		defaults: fenderValues,
		pots:     fmvPots,
		build:    buildFMV,
	},
	"marshall": {
		defaults: marshallValues,
		pots:     fmvPots,
		build:    buildFMV,
	},
	"lowpass-rc": {
		defaults: rcValues,
		build:    buildLowPassRC,
	},
	"highpass-rc": {
		defaults: rcValues,
		build:    buildHighPassRC,
	},
	"bandpass-rlc": {
		defaults: rlcValues,
		build:    buildBandPassRLC,
	},
	"lowpass-rlc": {
		defaults: rlcValues,
		build:    buildLowPassRLC,
	},
}

// New builds the named circuit. values overrides default component values
// by designator (R1, C2, ...) and pots sets knob positions by name; both may
// be nil.
func New(kind string, values map[string]float64, pots map[string]Pot) (Provider, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "fmv" {
		kind = "fender"
	}

	b, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownCircuit, kind, strings.Join(Kinds(), ", "))
	}

	v := b.defaults()
	for name, x := range values {
		key := strings.ToUpper(name)
		if _, ok := v[key]; !ok {
			return nil, fmt.Errorf("%s: %w %s", kind, ErrUnknownComponent, name)
		}
		if !(x > 0) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%s: %s = %g: %w", kind, name, x, ErrBadComponent)
		}
		v[key] = x
	}

	pos := make(map[string]float64, len(b.pots))
	for _, name := range b.pots {
		pos[name] = 0.5
	}
	for name, p := range pots {
		key := strings.ToLower(name)
		if _, ok := pos[key]; !ok {
			return nil, fmt.Errorf("%s: %w pot %s", kind, ErrUnknownComponent, name)
		}
		pos[key] = p.Position()
	}

	return b.build(v, pos), nil
}
