package util

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// FormatValueFactor prints a component value with an engineering prefix.
// 250e3 "ohm" -> "250.000 kohm"
func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue == 0:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e9:
		return fmt.Sprintf("%.3f G%s", value/1e9, unit)
	case absValue >= 1e6:
		return fmt.Sprintf("%.3f M%s", value/1e6, unit)
	case absValue >= 1e3:
		return fmt.Sprintf("%.3f k%s", value/1e3, unit)
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

func FormatFrequency(freq float64) string {
	switch {
	case freq >= 1e6:
		return fmt.Sprintf("%7.3f MHz", freq/1e6)
	case freq >= 1e3:
		return fmt.Sprintf("%7.3f kHz", freq/1e3)
	default:
		return fmt.Sprintf("%7.3f Hz ", freq)
	}
}

// FormatDecibel keeps a fixed width; poles on the axis print as n/a.
func FormatDecibel(db float64) string {
	if math.IsNaN(db) || math.IsInf(db, 0) {
		return fmt.Sprintf("%9s", "n/a")
	}
	return fmt.Sprintf("%6.2f dB", db) // " -11.75 dB"
}

func FormatPhase(deg float64) string {
	if math.IsNaN(deg) {
		return fmt.Sprintf("%9s", "n/a")
	}
	return fmt.Sprintf("%6.1f deg", deg) // " -45.0 deg"
}

// FormatPhasor prints a node voltage or branch current in polar form.
func FormatPhasor(name string, c complex128) string {
	mag := cmplx.Abs(c)
	phase := cmplx.Phase(c) * 180 / math.Pi

	var magStr string
	if mag >= 1000 || (mag < 0.001 && mag != 0) {
		magStr = fmt.Sprintf("%8.2e", mag) // "5.43e-05"
	} else {
		magStr = fmt.Sprintf("%8.3g", mag) // "   0.258"
	}
	return fmt.Sprintf("%s=%s<%6.1fdeg", name, magStr, phase)
}

// FormatRow is one line of a response table: frequency, then a dB and a
// degree column per series.
func FormatRow(freq float64, dbs, degs []float64) string {
	var sb strings.Builder
	sb.WriteString(FormatFrequency(freq))
	for i := range dbs {
		sb.WriteString("  ")
		sb.WriteString(FormatDecibel(dbs[i]))
		if i < len(degs) {
			sb.WriteString(" ")
			sb.WriteString(FormatPhase(degs[i]))
		}
	}
	return sb.String()
}
