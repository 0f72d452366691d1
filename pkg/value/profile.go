package value

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reOhm   = regexp.MustCompile(`(?i)ohms?$`)
	reOmega = regexp.MustCompile(`[\x{2126}\x{03a9}]$`)
	reMeg   = regexp.MustCompile(`(?i)meg$`)
	reFarad = regexp.MustCompile(`(?i)(f)(arad)?s?$`)
	reHenry = regexp.MustCompile(`(?i)(h)(enry|enrie)?s?$`)
)

// Unitless parses plain values with the full multiplier set.
var Unitless = newUnitless()

// Resistance parses ohms. Both m and M are mega, never milli.
var Resistance = newResistance()

// Capacitance parses farads. Bare numbers are picofarads, M is milli.
var Capacitance = newCapacitance()

// Inductance parses henries. Bare numbers are millihenries, M is milli.
var Inductance = newInductance()

func baseMultipliers() map[rune]float64 {
	return map[rune]float64{
		'p': 1e-12,
		'P': 1e-12,
		'n': 1e-9,
		'N': 1e-9,
		'u': 1e-6,
		'U': 1e-6,
		'µ': 1e-6, // micro sign
		'μ': 1e-6, // greek mu
		'm': 1e-3,
		'k': 1e3,
		'K': 1e3,
		'M': 1e6,
		'g': 1e9,
		'G': 1e9,
		't': 1e12,
		'T': 1e12,
	}
}

func newUnitless() *Profile {
	const mults = "pPnNuUµμmkKMgGtT"
	return &Profile{
		Name:           "value",
		Tip:            "Enter a value",
		multipliers:    baseMultipliers(),
		patternDecimal: regexp.MustCompile(`^(\d*\.\d*|\d+)([` + mults + `])$`),
		patternRKM:     regexp.MustCompile(`^(\d+)?([` + mults + `])(\d+)?$`),
	}
}

func newResistance() *Profile {
	return &Profile{
		Name: "resistance",
		Tip:  "Enter a resistance value.\nExamples: 2200, 2.2k, 2K2",
		multipliers: map[rune]float64{
			'k': 1e3,
			'K': 1e3,
			'm': 1e6,
			'M': 1e6,
			'g': 1e9,
			'G': 1e9,
		},
		patternDecimal: regexp.MustCompile(`(?i)^(\d*\.\d*|\d+)([kmg])$`),
		patternRKM:     regexp.MustCompile(`(?i)^(\d+)?([rkmg])(\d+)?$`),
		prefilter: func(str string) string {
			str = reOhm.ReplaceAllString(str, "")
			str = reOmega.ReplaceAllString(str, "")

			// SPICE "meg", then silkscreen m and g
			str = reMeg.ReplaceAllString(str, "M")
			str = strings.Replace(str, "m", "M", 1)
			str = strings.Replace(str, "g", "G", 1)
			return str
		},
	}
}

func newCapacitance() *Profile {
	const mults = "pPnNuUµμmMfF"
	return &Profile{
		Name: "capacitance",
		Tip:  "Enter a capacitance value.\nExamples: 2200p, 2.2n, 2N2",
		multipliers: map[rune]float64{
			'p': 1e-12,
			'P': 1e-12,
			'n': 1e-9,
			'N': 1e-9,
			'u': 1e-6,
			'U': 1e-6,
			'µ': 1e-6,
			'μ': 1e-6,
			'm': 1e-3,
			'M': 1e-3,
			'f': 1,
			'F': 1,
		},
		patternDecimal:    regexp.MustCompile(`^(\d*\.\d*|\d+)([` + mults + `])[fF]?$`),
		patternRKM:        regexp.MustCompile(`^(\d+)?([` + mults + `])(\d+)?$`),
		defaultMultiplier: 'p',
		prefilter: func(str string) string {
			return reFarad.ReplaceAllString(str, "${1}")
		},
	}
}

func newInductance() *Profile {
	const mults = "uUµμmMhH"
	return &Profile{
		Name: "inductance",
		Tip:  "Enter an inductance.\nExamples: 2200m, 2.2H, 2H2",
		multipliers: map[rune]float64{
			'u': 1e-6,
			'U': 1e-6,
			'µ': 1e-6,
			'μ': 1e-6,
			'm': 1e-3,
			'M': 1e-3,
			'h': 1,
			'H': 1,
		},
		patternDecimal:    regexp.MustCompile(`^(\d*\.\d*|\d+)([` + mults + `])[hH]?$`),
		patternRKM:        regexp.MustCompile(`^(\d+)?([` + mults + `])(\d+)?$`),
		defaultMultiplier: 'm',
		prefilter: func(str string) string {
			return reHenry.ReplaceAllString(str, "${1}")
		},
	}
}

// ProfileFor resolves a component kind: value, R, C, L or their long names.
func ProfileFor(kind string) (*Profile, error) {
	switch strings.ToLower(kind) {
	case "", "value", "unitless":
		return Unitless, nil
	case "r", "resistance", "resistor":
		return Resistance, nil
	case "c", "capacitance", "capacitor":
		return Capacitance, nil
	case "l", "inductance", "inductor":
		return Inductance, nil
	}
	return nil, fmt.Errorf("unknown value kind: %s", kind)
}

// ProfileForName picks the profile from a designator. R1 -> Resistance
func ProfileForName(name string) *Profile {
	if name == "" {
		return Unitless
	}
	switch name[0] {
	case 'R', 'r':
		return Resistance
	case 'C', 'c':
		return Capacitance
	case 'L', 'l':
		return Inductance
	}
	return Unitless
}
