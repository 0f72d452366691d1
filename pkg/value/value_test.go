package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parseCase struct {
	in        string
	value     float64
	formatted string
}

func assertValue(t *testing.T, expected, actual float64) {
	t.Helper()
	if expected == 0 {
		assert.Zero(t, actual)
		return
	}
	assert.InEpsilon(t, expected, actual, 1e-12)
}

func runValid(t *testing.T, p *Profile, cases []parseCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := p.Parse(tc.in)
			require.True(t, ok, "expected %q to be valid", tc.in)
			assertValue(t, tc.value, got.Value)
			assert.Equal(t, tc.formatted, got.Formatted)
		})
	}
}

func runInvalid(t *testing.T, p *Profile, inputs []string) {
	t.Helper()
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, ok := p.Parse(in)
			assert.False(t, ok, "expected %q to be invalid", in)
			assert.Equal(t, Parsed{Value: 0, Formatted: "0"}, got)
		})
	}
}

var unitlessCases = []parseCase{
	{"1k5 ", 1500, "1k5"},
	{" 1K5", 1500, "1K5"},
	{"+2k2", 2200, "2k2"},
	{"1", 1, "1"},
	{"0.1", 0.1, "0.1"},
	{"1.", 1, "1"},
	{"1.p", 1e-12, "1p"},
	{".1", 0.1, "0.1"},
	{".1p", 0.1e-12, "0.1p"},
	{"1p", 1e-12, "1p"},
	{"1.5P", 1.5e-12, "1.5P"},
	{"1P5", 1.5e-12, "1P5"},
	{"p5", 0.5e-12, "p5"},
	{"1N5", 1.5e-9, "1N5"},
	{"n5", 0.5e-9, "n5"},
	{"1u", 1e-6, "1u"},
	{"1µ", 1e-6, "1µ"},
	{"1μ", 1e-6, "1μ"},
	{"1.5U", 1.5e-6, "1.5U"},
	{"1µ5", 1.5e-6, "1µ5"},
	{"μ5", 0.5e-6, "μ5"},
	{"1m", 1e-3, "1m"},
	{"1m5", 1.5e-3, "1m5"},
	{"m5", 0.5e-3, "m5"},
	{"1k", 1e3, "1k"},
	{"1.5K", 1.5e3, "1.5K"},
	{"k5", 500, "k5"},
	{"1M", 1e6, "1M"},
	{"1M5", 1.5e6, "1M5"},
	{"1g", 1e9, "1g"},
	{"1.5G", 1.5e9, "1.5G"},
	{"g5", 0.5e9, "g5"},
	{"1t", 1e12, "1t"},
	{"1T5", 1.5e12, "1T5"},
	{"1e3", 1000, "1000"},
	{"", 0, "0"},
	{"   ", 0, "0"},
}

var resistanceCases = []parseCase{
	{"1k5 ohms", 1500, "1k5"},
	{"1k5 Ohm", 1500, "1k5"},
	{"2.2kΩ", 2200, "2.2k"},
	{"1", 1, "1"},
	{"1.", 1, "1"},
	{"0.1", 0.1, "0.1"},
	{".1", 0.1, "0.1"},
	{"R1", 0.1, "R1"},
	{"1R", 1, "1R"},
	{"1R2", 1.2, "1R2"},
	{"1m", 1e6, "1M"},
	{"1.5m", 1.5e6, "1.5M"},
	{"1m5", 1.5e6, "1M5"},
	{"m5", 0.5e6, "M5"},
	{"1k", 1e3, "1k"},
	{"1.5K", 1.5e3, "1.5K"},
	{"1K5", 1.5e3, "1K5"},
	{"k5", 500, "k5"},
	{"1M", 1e6, "1M"},
	{"1meg", 1e6, "1M"},
	{"1.5M", 1.5e6, "1.5M"},
	{"1.5Meg", 1.5e6, "1.5M"},
	{"1M5", 1.5e6, "1M5"},
	{"1g", 1e9, "1G"},
	{"1.5G", 1.5e9, "1.5G"},
	{"1G5", 1.5e9, "1G5"},
	{"g5", 0.5e9, "G5"},
}

var capacitanceCases = []parseCase{
	{"1.5 farad", 1.5, "1.5f"},
	{"1.5 Farads", 1.5, "1.5F"},
	{"1.5 F", 1.5, "1.5F"},
	{"1F", 1, "1F"},
	{"1.F", 1, "1F"},
	{"0.1F", 0.1, "0.1F"},
	{".1F", 0.1, "0.1F"},
	{"1F5", 1.5, "1F5"},
	{"f5", 0.5, "f5"},
	{"1", 1e-12, "1p"},
	{"1.", 1e-12, "1p"},
	{"0.1", 0.1e-12, "0.1p"},
	{".1", 0.1e-12, "0.1p"},
	{"100", 100e-12, "100p"},
	{"1p", 1e-12, "1p"},
	{"1pF", 1e-12, "1pF"},
	{"1.5PF", 1.5e-12, "1.5PF"},
	{"p5", 0.5e-12, "p5"},
	{"4.7n", 4.7e-9, "4.7n"},
	{"1nF", 1e-9, "1nF"},
	{"2N2", 2.2e-9, "2N2"},
	{"1uF", 1e-6, "1uF"},
	{"1µF", 1e-6, "1µF"},
	{"1.5μF", 1.5e-6, "1.5μF"},
	{"µ5", 0.5e-6, "µ5"},
	{"1m", 1e-3, "1m"},
	{"1.5mF", 1.5e-3, "1.5mF"},
	{"1M", 1e-3, "1M"},
	{"1MF", 1e-3, "1MF"},
	{"1M5", 1.5e-3, "1M5"},
	{"M5", 0.5e-3, "M5"},
}

var inductanceCases = []parseCase{
	{"1.5 Henries", 1.5, "1.5H"},
	{"1.5 henry", 1.5, "1.5h"},
	{"1.5 H", 1.5, "1.5H"},
	{"1H", 1, "1H"},
	{"1.H", 1, "1H"},
	{".1H", 0.1, "0.1H"},
	{"1H5", 1.5, "1H5"},
	{"h5", 0.5, "h5"},
	{"1", 1e-3, "1m"},
	{"0.1", 0.1e-3, "0.1m"},
	{"100", 100e-3, "100m"},
	{"1uH", 1e-6, "1uH"},
	{"1μH", 1e-6, "1μH"},
	{"1U5", 1.5e-6, "1U5"},
	{"1mH", 1e-3, "1mH"},
	{"m5", 0.5e-3, "m5"},
	{"1M", 1e-3, "1M"},
	{"1.5MH", 1.5e-3, "1.5MH"},
	{"M5", 0.5e-3, "M5"},
}

func TestParseUnitless(t *testing.T) {
	runValid(t, Unitless, unitlessCases)
	runInvalid(t, Unitless, []string{".", ".p", "-5", "abc", "1k5k", "k", "1x", "Inf", "NaN", "0x10"})
}

func TestParseResistance(t *testing.T) {
	runValid(t, Resistance, resistanceCases)
	runInvalid(t, Resistance, []string{".", "-5", "R", "1p", "1T", "1u", "1kk"})
}

func TestParseCapacitance(t *testing.T) {
	runValid(t, Capacitance, capacitanceCases)
	runInvalid(t, Capacitance, []string{".", ".F", "-5", "1k", "1G", "1H"})
}

func TestParseInductance(t *testing.T) {
	runValid(t, Inductance, inductanceCases)
	runInvalid(t, Inductance, []string{".", ".H", "-5", "1p", "1n", "1F"})
}

func TestRKMEquivalence(t *testing.T) {
	rkm, ok := Resistance.Parse("1k5")
	require.True(t, ok)
	dec, ok := Resistance.Parse("1.5k")
	require.True(t, ok)
	assert.Equal(t, dec.Value, rkm.Value)
	assert.Equal(t, 1500.0, rkm.Value)
}

func TestMegaMilliConventions(t *testing.T) {
	c, ok := Capacitance.Parse("1M")
	require.True(t, ok)
	assertValue(t, 1e-3, c.Value)

	l, ok := Inductance.Parse("1M")
	require.True(t, ok)
	assertValue(t, 1e-3, l.Value)

	for _, in := range []string{"1m", "1M"} {
		r, ok := Resistance.Parse(in)
		require.True(t, ok)
		assertValue(t, 1e6, r.Value)
	}
}

func TestParseAnyRejectsNonString(t *testing.T) {
	for _, v := range []any{42, 4.7, nil, []byte("1k")} {
		got, ok := Unitless.ParseAny(v)
		assert.False(t, ok)
		assert.Equal(t, "0", got.Formatted)
		assert.Zero(t, got.Value)
	}

	got, ok := Resistance.ParseAny("2K2")
	require.True(t, ok)
	assertValue(t, 2200, got.Value)
}

func TestRoundTrip(t *testing.T) {
	profiles := []struct {
		profile *Profile
		cases   []parseCase
	}{
		{Unitless, unitlessCases},
		{Resistance, resistanceCases},
		{Capacitance, capacitanceCases},
		{Inductance, inductanceCases},
	}

	for _, pc := range profiles {
		t.Run(pc.profile.Name, func(t *testing.T) {
			for _, tc := range pc.cases {
				first, ok := pc.profile.Parse(tc.in)
				require.True(t, ok, tc.in)

				second, ok := pc.profile.Parse(first.Formatted)
				require.True(t, ok, "formatted %q of %q must parse", first.Formatted, tc.in)
				assert.Equal(t, first.Value, second.Value, tc.in)
				assert.Equal(t, first.Formatted, second.Formatted, tc.in)
			}
		})
	}
}

func TestProfilesOwnTheirTables(t *testing.T) {
	m, ok := Unitless.Multiplier('M')
	require.True(t, ok)
	assert.Equal(t, 1e6, m)

	m, ok = Capacitance.Multiplier('M')
	require.True(t, ok)
	assert.Equal(t, 1e-3, m)

	_, ok = Resistance.Multiplier('r')
	assert.False(t, ok)
	_, ok = Resistance.Multiplier('T')
	assert.False(t, ok)
}

func TestProfileFor(t *testing.T) {
	for kind, want := range map[string]*Profile{
		"R":           Resistance,
		"capacitance": Capacitance,
		"l":           Inductance,
		"value":       Unitless,
	} {
		got, err := ProfileFor(kind)
		require.NoError(t, err)
		assert.Same(t, want, got)
	}

	_, err := ProfileFor("voltage")
	assert.Error(t, err)

	assert.Same(t, Resistance, ProfileForName("R4"))
	assert.Same(t, Capacitance, ProfileForName("c2"))
	assert.Same(t, Inductance, ProfileForName("L1"))
	assert.Same(t, Unitless, ProfileForName("gain"))
}
