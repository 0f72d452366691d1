package consts

import "math"

const (
	TWO_PI = 2 * math.Pi // Radians per cycle

	AXIS_ROUNDING = 100000 // Geometric axis points are rounded to 5 decimal digits
)

const (
	FrequencyLabel = "frequency [Hz]"
	AmplitudeLabel = "amplitude [dB]"
	PhaseLabel     = "phase [deg]"
)

// ColorSpectrum is cycled through when snapshot series are added.
var ColorSpectrum = []string{"#D50", "blue", "green", "black", "red", "slateblue", "violet", "gray", "tomato", "lightgray"}
