package tonestack

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-tonestack/pkg/transfer"
)

// fmvNodal solves the stack by nodal analysis with a 1 V source. Unknown
// nodes: 0 treble top, 1 output wiper, 2 treble bottom, 3 bass bottom,
// 4 mid wiper, 5 slope node.
func fmvNodal(f FMV, freq float64) complex128 {
	const (
		vi  = -1
		gnd = -2
	)
	s := complex(0, 2*math.Pi*freq)
	var y [6][6]complex128
	var rhs [6]complex128

	adm := func(a, b int, g complex128) {
		switch {
		case a < 0 && b < 0:
			return
		case a < 0 || b < 0:
			n, other := a, b
			if a < 0 {
				n, other = b, a
			}
			y[n][n] += g
			if other == vi {
				rhs[n] += g
			}
		default:
			y[a][a] += g
			y[b][b] += g
			y[a][b] -= g
			y[b][a] -= g
		}
	}
	res := func(r float64) complex128 { return complex(1/r, 0) }

	adm(vi, 0, s*complex(f.C1, 0))
	adm(0, 1, res((1-f.Treble)*f.R1))
	adm(1, 2, res(f.Treble*f.R1))
	adm(2, 3, res(f.Bass*f.R2))
	adm(3, 4, res((1-f.Middle)*f.R3))
	adm(4, gnd, res(f.Middle*f.R3))
	adm(vi, 5, res(f.R4))
	adm(5, 2, s*complex(f.C2, 0))
	adm(5, 4, s*complex(f.C3, 0))

	// Gauss-Jordan with partial pivoting
	const n = 6
	for c := 0; c < n; c++ {
		p := c
		for r := c + 1; r < n; r++ {
			if cmplx.Abs(y[r][c]) > cmplx.Abs(y[p][c]) {
				p = r
			}
		}
		y[c], y[p] = y[p], y[c]
		rhs[c], rhs[p] = rhs[p], rhs[c]
		for r := 0; r < n; r++ {
			if r == c {
				continue
			}
			k := y[r][c] / y[c][c]
			for j := c; j < n; j++ {
				y[r][j] -= k * y[c][j]
			}
			rhs[r] -= k * rhs[c]
		}
	}
	return rhs[1] / y[1][1]
}

func coefficientsAt(p Provider, freq float64) complex128 {
	num, den := p.Coefficients()
	omega := 2 * math.Pi * freq
	return transfer.Evaluate(num, omega).Complex128() / transfer.Evaluate(den, omega).Complex128()
}

func TestFMVMatchesNodalSolve(t *testing.T) {
	knobs := []struct{ treble, bass, middle float64 }{
		{0.5, 0.5, 0.5},
		{0.3, 0.6, 0.45},
		{0.9, 0.1, 0.8},
		{0.05, 0.95, 0.2},
	}
	freqs := []float64{10, 31.6, 100, 316, 1000, 3160, 10000, 31600, 100000}

	for _, stack := range []struct {
		name string
		fmv  FMV
	}{{"fender", Fender()}, {"marshall", Marshall()}} {
		for _, k := range knobs {
			f := stack.fmv
			f.Treble, f.Bass, f.Middle = k.treble, k.bass, k.middle
			for _, freq := range freqs {
				want := fmvNodal(f, freq)
				got := coefficientsAt(f, freq)
				relErr := cmplx.Abs(got-want) / cmplx.Abs(want)
				assert.Less(t, relErr, 1e-9, "%s %+v at %g Hz", stack.name, k, freq)
			}
		}
	}
}

func TestFMVShape(t *testing.T) {
	num, den := Fender().Coefficients()
	require.Len(t, num, 4)
	require.Len(t, den, 4)
	assert.Zero(t, num[0])
	assert.Equal(t, 1.0, den[0])

	// centred Fender stack sits near -11.7 dB at 1 kHz
	db, _ := transfer.Sample(Response(Fender()), 1000)
	assert.InDelta(t, -11.75, db, 0.01)
}

func TestFMVKnobsClamped(t *testing.T) {
	f := Fender()
	f.Treble, f.Bass, f.Middle = 1.5, -1, 2
	g := Fender()
	g.Treble, g.Bass, g.Middle = 1, 0, 1

	fn, fd := f.Coefficients()
	gn, gd := g.Coefficients()
	assert.Equal(t, gn, fn)
	assert.Equal(t, gd, fd)
}

func TestFirstOrderFilters(t *testing.T) {
	tau := 1 / (2 * math.Pi * 1000)

	lp := LowPassRC{R: 1000, C: tau / 1000}
	db, deg := transfer.Sample(Response(lp), 1000)
	assert.InDelta(t, -3.0103, db, 1e-3)
	assert.InDelta(t, -45, deg, 0.1)

	hp := HighPassRC{R: 1000, C: tau / 1000}
	db, deg = transfer.Sample(Response(hp), 1000)
	assert.InDelta(t, -3.0103, db, 1e-3)
	assert.InDelta(t, 45, deg, 0.1)
}

func TestSecondOrderFilters(t *testing.T) {
	const r, l, c = 100.0, 10e-3, 2.533e-6
	f0 := 1 / (2 * math.Pi * math.Sqrt(l*c))

	db, deg := transfer.Sample(Response(BandPassRLC{R: r, L: l, C: c}), f0)
	assert.InDelta(t, 0, db, 1e-6)
	assert.InDelta(t, 0, deg, 0.1)

	// Q = sqrt(L/C)/R, gain at resonance is Q
	q := math.Sqrt(l/c) / r
	db, deg = transfer.Sample(Response(LowPassRLC{R: r, L: l, C: c}), f0)
	assert.InDelta(t, 20*math.Log10(q), db, 1e-6)
	assert.InDelta(t, -90, deg, 0.1)
}

func TestTaper(t *testing.T) {
	tests := []struct {
		taper Taper
		in    float64
		want  float64
	}{
		{Linear, 0, 0},
		{Linear, 7, 7},
		{LogA, 2, 1.2},
		{LogA, 5, 3},
		{LogA, 10, 10},
		{LogB, 4, 0.8},
		{LogB, 5, 1},
		{LogB, 10, 10},
		{Taper("unknown"), 3, 3},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, tt.taper.Rotation(tt.in), 1e-12, "%s(%g)", tt.taper, tt.in)
	}

	assert.Equal(t, 0.5, Pot{Rotation: 5}.Position())
	assert.InDelta(t, 0.3, Pot{Rotation: 5, Taper: LogA}.Position(), 1e-12)
	assert.Equal(t, 1.0, Pot{Rotation: 12}.Position())
	assert.Equal(t, 0.0, Pot{Rotation: -1}.Position())
}

func TestParseTaper(t *testing.T) {
	for in, want := range map[string]Taper{"": Linear, "LIN": Linear, "logA": LogA, "a": LogA, "LogB": LogB} {
		got, err := ParseTaper(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseTaper("audio")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	p, err := New("Marshall", map[string]float64{"r3": 25e3}, map[string]Pot{
		"Treble": {Rotation: 10},
		"bass":   {Rotation: 0},
	})
	require.NoError(t, err)

	f, ok := p.(FMV)
	require.True(t, ok)
	assert.Equal(t, 25e3, f.R3)
	assert.Equal(t, 470e-12, f.C1)
	assert.Equal(t, 1.0, f.Treble)
	assert.Equal(t, 0.0, f.Bass)
	assert.Equal(t, 0.5, f.Middle)

	p, err = New("fmv", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Fender(), p)

	p, err = New("bandpass-rlc", map[string]float64{"R1": 50}, nil)
	require.NoError(t, err)
	assert.Equal(t, BandPassRLC{R: 50, L: 10e-3, C: 2.533e-6}, p)
}

func TestNewErrors(t *testing.T) {
	_, err := New("big-muff", nil, nil)
	assert.True(t, errors.Is(err, ErrUnknownCircuit))

	_, err = New("fender", map[string]float64{"R9": 1}, nil)
	assert.True(t, errors.Is(err, ErrUnknownComponent))

	_, err = New("lowpass-rc", nil, map[string]Pot{"treble": {}})
	assert.True(t, errors.Is(err, ErrUnknownComponent))

	_, err = New("fender", map[string]float64{"C1": 0}, nil)
	assert.True(t, errors.Is(err, ErrBadComponent))

	_, err = New("fender", map[string]float64{"C1": math.Inf(1)}, nil)
	assert.True(t, errors.Is(err, ErrBadComponent))
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []string{"bandpass-rlc", "fender", "highpass-rc", "lowpass-rc", "lowpass-rlc", "marshall"}, Kinds())
}
