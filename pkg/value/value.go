package value

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parsed is the result of a single parse. 2k2 -> {2200, "2k2"}
type Parsed struct {
	Value     float64 // Numeric value, always >= 0
	Formatted string  // Cleaned-up text which parses back to Value
}

// Profile holds the grammar tables of one component domain.
// Profiles are immutable; share them freely.
type Profile struct {
	Name string
	Tip  string // Message shown for invalid text

	multipliers       map[rune]float64
	patternDecimal    *regexp.Regexp // 1: mantissa, 2: multiplier
	patternRKM        *regexp.Regexp // 1: integer digits, 2: multiplier, 3: fraction digits
	defaultMultiplier rune           // 0 when bare numbers are taken as is
	prefilter         func(string) string
}

var (
	reDotNonDigit = regexp.MustCompile(`\.([^\d])`)
	reNumeric     = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)
)

var invalid = Parsed{Value: 0, Formatted: "0"}

// Parse converts text into a value. Invalid text is reported by ok == false,
// never by a panic.
func (p *Profile) Parse(text string) (Parsed, bool) {
	str := clean(text)

	if p.prefilter != nil {
		str = p.prefilter(str)
	}

	// Empty text is accepted as zero
	if str == "" {
		return invalid, true
	}

	// Values must be positive
	if strings.HasPrefix(str, "-") {
		return invalid, false
	}

	var result Parsed
	var multiplier rune

	if match := p.patternDecimal.FindStringSubmatch(str); match != nil {
		// 18k, 1.8u, .5p
		v, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return invalid, false
		}
		result.Value = v
		multiplier, _ = utf8.DecodeRuneInString(match[2])
		result.Formatted = str
		if strings.HasPrefix(str, ".") {
			result.Formatted = "0" + str
		}
	} else if match := p.patternRKM.FindStringSubmatch(str); match != nil && (match[1] != "" || match[3] != "") {
		// R5, 10R2, 1K87, 25M5
		whole, frac := match[1], match[3]
		if whole == "" {
			whole = "0"
		}
		if frac == "" {
			frac = "0"
		}
		v, err := strconv.ParseFloat(whole+"."+frac, 64)
		if err != nil {
			return invalid, false
		}
		result.Value = v
		multiplier, _ = utf8.DecodeRuneInString(match[2])
		result.Formatted = str
	} else if reNumeric.MatchString(str) {
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return invalid, false
		}
		result.Value = v
		result.Formatted = strconv.FormatFloat(v, 'f', -1, 64)
		if p.defaultMultiplier != 0 {
			multiplier = p.defaultMultiplier
			result.Formatted += string(multiplier)
		}
	} else {
		return invalid, false
	}

	// Letters missing from the table (R, unit letters) do not scale
	if factor, ok := p.multipliers[multiplier]; ok {
		result.Value *= factor
	}

	return result, true
}

// ParseAny is Parse for untyped input, anything but a string is invalid.
func (p *Profile) ParseAny(v any) (Parsed, bool) {
	s, ok := v.(string)
	if !ok {
		return invalid, false
	}
	return p.Parse(s)
}

// Multiplier returns the scale factor of a multiplier letter.
func (p *Profile) Multiplier(r rune) (float64, bool) {
	f, ok := p.multipliers[r]
	return f, ok
}

// clean removes whitespace, a leading plus and decimal points which are not
// followed by a digit. " +1.k" -> "1k"
func clean(text string) string {
	str := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	str = strings.TrimPrefix(str, "+")
	return reDotNonDigit.ReplaceAllString(str, "${1}")
}
