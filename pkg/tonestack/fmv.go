package tonestack

var fmvPots = []string{"treble", "bass", "middle"}

// FMV is the Fender/Marshall/Vox passive tone stack. R1 is the treble pot,
// R2 the bass pot, R3 the mid pot and R4 the slope resistor. Treble, Bass
// and Middle are wiper positions in [0,1].
type FMV struct {
	R1, R2, R3, R4 float64
	C1, C2, C3     float64

	Treble float64
	Bass   float64
	Middle float64
}

// Fender returns the '59 Bassman stack with every knob centred.
func Fender() FMV {
	return buildFMV(fenderValues(), nil).(FMV)
}

// Marshall returns the JTM45 stack with every knob centred.
func Marshall() FMV {
	return buildFMV(marshallValues(), nil).(FMV)
}

func fenderValues() map[string]float64 {
	return map[string]float64{
		"R1": 250e3, "R2": 1e6, "R3": 25e3, "R4": 56e3,
		"C1": 250e-12, "C2": 20e-9, "C3": 20e-9,
	}
}

func marshallValues() map[string]float64 {
	return map[string]float64{
		"R1": 220e3, "R2": 1e6, "R3": 22e3, "R4": 33e3,
		"C1": 470e-12, "C2": 22e-9, "C3": 22e-9,
	}
}

func buildFMV(v, pos map[string]float64) Provider {
	f := FMV{
		R1: v["R1"], R2: v["R2"], R3: v["R3"], R4: v["R4"],
		C1: v["C1"], C2: v["C2"], C3: v["C3"],
		Treble: 0.5, Bass: 0.5, Middle: 0.5,
	}
	if p, ok := pos["treble"]; ok {
		f.Treble = p
	}
	if p, ok := pos["bass"]; ok {
		f.Bass = p
	}
	if p, ok := pos["middle"]; ok {
		f.Middle = p
	}
	return f
}

// Coefficients returns the third order H(s) = (b1 s + b2 s^2 + b3 s^3) /
// (1 + a1 s + a2 s^2 + a3 s^3) after D. T. Yeh's analysis of the stack.
func (f FMV) Coefficients() ([]float64, []float64) {
	R1, R2, R3, R4 := f.R1, f.R2, f.R3, f.R4
	C1, C2, C3 := f.C1, f.C2, f.C3
	t, l, m := clamp01(f.Treble), clamp01(f.Bass), clamp01(f.Middle)

	b1 := t*C1*R1 + m*C3*R3 + l*(C1*R2+C2*R2) + (C1*R3 + C2*R3)

	b2 := t*(C1*C2*R1*R4+C1*C3*R1*R4) -
		m*m*(C1*C3*R3*R3+C2*C3*R3*R3) +
		m*(C1*C3*R1*R3+C1*C3*R3*R3+C2*C3*R3*R3) +
		l*(C1*C2*R1*R2+C1*C2*R2*R4+C1*C3*R2*R4) +
		l*m*(C1*C3*R2*R3+C2*C3*R2*R3) +
		(C1*C2*R1*R3 + C1*C2*R3*R4 + C1*C3*R3*R4)

	b3 := l*m*(C1*C2*C3*R1*R2*R3+C1*C2*C3*R2*R3*R4) -
		m*m*(C1*C2*C3*R1*R3*R3+C1*C2*C3*R3*R3*R4) +
		m*(C1*C2*C3*R1*R3*R3+C1*C2*C3*R3*R3*R4) +
		t*C1*C2*C3*R1*R3*R4 -
		t*m*C1*C2*C3*R1*R3*R4 +
		t*l*C1*C2*C3*R1*R2*R4

	a1 := (C1*R1 + C1*R3 + C2*R3 + C2*R4 + C3*R4) + m*C3*R3 + l*(C1*R2+C2*R2)

	a2 := m*(C1*C3*R1*R3-C2*C3*R3*R4+C1*C3*R3*R3+C2*C3*R3*R3) +
		l*m*(C1*C3*R2*R3+C2*C3*R2*R3) -
		m*m*(C1*C3*R3*R3+C2*C3*R3*R3) +
		l*(C1*C2*R2*R4+C1*C2*R1*R2+C1*C3*R2*R4+C2*C3*R2*R4) +
		(C1*C2*R1*R4 + C1*C3*R1*R4 + C1*C2*R3*R4 + C1*C2*R1*R3 + C1*C3*R3*R4 + C2*C3*R3*R4)

	a3 := l*m*(C1*C2*C3*R1*R2*R3+C1*C2*C3*R2*R3*R4) -
		m*m*(C1*C2*C3*R1*R3*R3+C1*C2*C3*R3*R3*R4) +
		m*(C1*C2*C3*R3*R3*R4+C1*C2*C3*R1*R3*R3-C1*C2*C3*R1*R3*R4) +
		l*C1*C2*C3*R1*R2*R4 +
		C1*C2*C3*R1*R3*R4

	return []float64{0, b1, b2, b3}, []float64{1, a1, a2, a3}
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
