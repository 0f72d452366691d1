package tonestack

// LowPassRC is a first order RC low pass, output across C.
type LowPassRC struct {
	R, C float64
}

func (f LowPassRC) Coefficients() ([]float64, []float64) {
	return []float64{1}, []float64{1, f.R * f.C}
}

// HighPassRC is a first order RC high pass, output across R.
type HighPassRC struct {
	R, C float64
}

func (f HighPassRC) Coefficients() ([]float64, []float64) {
	tau := f.R * f.C
	return []float64{0, tau}, []float64{1, tau}
}

// BandPassRLC is a series RLC with the output taken across R.
type BandPassRLC struct {
	R, L, C float64
}

func (f BandPassRLC) Coefficients() ([]float64, []float64) {
	return []float64{0, f.R * f.C}, []float64{1, f.R * f.C, f.L * f.C}
}

// LowPassRLC is a series RLC with the output taken across C.
type LowPassRLC struct {
	R, L, C float64
}

func (f LowPassRLC) Coefficients() ([]float64, []float64) {
	return []float64{1}, []float64{1, f.R * f.C, f.L * f.C}
}

// Defaults put the RC corner near 1 kHz and the RLC resonance near 1 kHz.
func rcValues() map[string]float64 {
	return map[string]float64{"R1": 10e3, "C1": 15.9e-9}
}

func rlcValues() map[string]float64 {
	return map[string]float64{"R1": 100, "L1": 10e-3, "C1": 2.533e-6}
}

func buildLowPassRC(v, _ map[string]float64) Provider {
	return LowPassRC{R: v["R1"], C: v["C1"]}
}

func buildHighPassRC(v, _ map[string]float64) Provider {
	return HighPassRC{R: v["R1"], C: v["C1"]}
}

func buildBandPassRLC(v, _ map[string]float64) Provider {
	return BandPassRLC{R: v["R1"], L: v["L1"], C: v["C1"]}
}

func buildLowPassRLC(v, _ map[string]float64) Provider {
	return LowPassRLC{R: v["R1"], L: v["L1"], C: v["C1"]}
}
