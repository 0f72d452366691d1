package sweep

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/edp1096/toy-tonestack/internal/consts"
)

// Mode selects how points advance inside a decade.
type Mode string

const (
	Geometric  Mode = "geometric"  // Constant ratio, points per decade
	Arithmetic Mode = "arithmetic" // Constant increment per decade
)

var ErrInvalidConfig = errors.New("invalid sweep configuration")

// Config describes one frequency sweep.
type Config struct {
	Deviation float64 `yaml:"deviation"` // points per decade
	StartFreq float64 `yaml:"start"`
	StopFreq  float64 `yaml:"stop"`
	Mode      Mode    `yaml:"mode"`
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "geometric", "geo", "log", "dec":
		return Geometric, nil
	case "arithmetic", "arith", "lin":
		return Arithmetic, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}

// Validate rejects configurations the generator cannot finish.
func (c Config) Validate() error {
	if !(c.Deviation > 0) || math.IsInf(c.Deviation, 0) {
		return fmt.Errorf("%w: deviation %g must be a positive number", ErrInvalidConfig, c.Deviation)
	}
	if !(c.StartFreq > 0) || math.IsInf(c.StartFreq, 0) {
		return fmt.Errorf("%w: start frequency %g must be a positive number", ErrInvalidConfig, c.StartFreq)
	}
	if math.IsNaN(c.StopFreq) || math.IsInf(c.StopFreq, 0) || c.StopFreq < c.StartFreq {
		return fmt.Errorf("%w: stop frequency %g must be finite and not below start %g", ErrInvalidConfig, c.StopFreq, c.StartFreq)
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if math.Pow(10, 1/c.Deviation) <= 1 {
		return fmt.Errorf("%w: deviation %g is too large", ErrInvalidConfig, c.Deviation)
	}
	return nil
}

func (c Config) Build() ([]float64, error) {
	return Build(c.Deviation, c.StartFreq, c.StopFreq, c.Mode)
}

// Build creates the analysis frequencies. The result is strictly ascending
// and always ends with stop.
func Build(deviation, start, stop float64, mode Mode) ([]float64, error) {
	cfg := Config{Deviation: deviation, StartFreq: start, StopFreq: stop, Mode: mode}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, _ = ParseMode(string(mode))

	// adder for arithmetic series, multiplier for geometric series
	adder := (10 - 1) / deviation
	multiplier := math.Pow(10, 1/deviation)

	// exponent of the decade holding stop
	k := 0
	for math.Pow(10, float64(k)) < stop {
		k++
	}

	var axis []float64
	f := start
	z := f

	for j := 0; j <= k; j++ {
		limit := math.Pow(10, float64(j+1)) - adder
		increment := adder * math.Pow(10, float64(j))
		for f <= limit && f <= stop {
			if z < stop && (len(axis) == 0 || z > axis[len(axis)-1]) {
				axis = append(axis, z)
			}

			next := f * multiplier
			if mode == Arithmetic {
				next = f + increment
			}
			if !(next > f) {
				return nil, fmt.Errorf("%w: no progress at %g Hz", ErrInvalidConfig, f)
			}

			f = next
			z = f
			if mode == Geometric {
				z = math.Round(consts.AXIS_ROUNDING*f) / consts.AXIS_ROUNDING
			}
		}
	}

	return append(axis, stop), nil
}
