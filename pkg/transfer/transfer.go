package transfer

import (
	"math"

	"github.com/edp1096/toy-tonestack/internal/consts"
	"github.com/edp1096/toy-tonestack/pkg/series"
)

// Response gives numerator and denominator of a transfer function at an
// angular frequency.
type Response interface {
	At(omega float64) (num, den Complex)
}

// Rational is N(s)/D(s) with coefficients ascending by power of s.
type Rational struct {
	Num []float64
	Den []float64
}

func (r Rational) At(omega float64) (Complex, Complex) {
	return Evaluate(r.Num, omega), Evaluate(r.Den, omega)
}

// Extent holds the value range of one sweep, for axis scaling. NaN samples
// are left out of the range; Valid is false when every sample was NaN.
type Extent struct {
	DBMin  float64
	DBMax  float64
	DegMin float64
	DegMax float64
	Valid  bool
}

func (e *Extent) add(db, deg float64, first bool) {
	if first {
		e.DBMin, e.DBMax = db, db
		e.DegMin, e.DegMax = deg, deg
		return
	}
	e.DBMin = math.Min(e.DBMin, db)
	e.DBMax = math.Max(e.DBMax, db)
	e.DegMin = math.Min(e.DegMin, deg)
	e.DegMax = math.Max(e.DegMax, deg)
}

// Run evaluates num/den over the axis. See RunResponse.
func Run(num, den []float64, axis []float64, live int, mag, phase *series.Table) Extent {
	return RunResponse(Rational{Num: num, Den: den}, axis, live, mag, phase)
}

// RunResponse writes dB and degrees of r into column live of mag and phase,
// either of which may be nil. A sample landing exactly on ±180 degrees keeps
// the sign of the previous sample so the curve does not jump across the
// atan2 branch cut.
func RunResponse(r Response, axis []float64, live int, mag, phase *series.Table) Extent {
	var ext Extent
	seen := 0
	sign := 1.0

	for j, f := range axis {
		db, deg := sample(r, f)

		if math.Abs(deg) == 180 {
			deg = math.Copysign(180, sign)
		}
		if deg < 0 {
			sign = -1
		} else {
			sign = 1
		}

		if mag != nil {
			mag.Set(j, live, db)
		}
		if phase != nil {
			phase.Set(j, live, deg)
		}

		// NaN marks a pole or zero sitting on the axis, it has no extent
		if math.IsNaN(db) || math.IsNaN(deg) {
			continue
		}
		ext.add(db, deg, seen == 0)
		seen++
	}

	ext.Valid = seen > 0
	return ext
}

// Sample evaluates r at a single frequency. Degrees are rounded to 0.1.
func Sample(r Response, freq float64) (db, deg float64) {
	return sample(r, freq)
}

func sample(r Response, freq float64) (float64, float64) {
	num, den := r.At(consts.TWO_PI * freq)

	// Multiply by conj(D) so the denominator becomes real
	realNum := num.Re*den.Re + num.Im*den.Im
	imagNum := num.Im*den.Re - num.Re*den.Im
	denom := den.Re*den.Re + den.Im*den.Im

	magnitude := math.Sqrt(realNum*realNum+imagNum*imagNum) / denom
	db := 20 * math.Log10(magnitude)

	phaseRad := math.Atan2(imagNum, realNum)
	deg := roundHalfUp(phaseRad*1800/math.Pi) / 10

	return db, deg
}

// roundHalfUp rounds ties toward +Inf, so -450.5 becomes -450.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
