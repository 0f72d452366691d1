package transfer

import "math"

// Complex is a plain complex value.
type Complex struct {
	Re float64
	Im float64
}

func FromComplex128(c complex128) Complex {
	return Complex{Re: real(c), Im: imag(c)}
}

func (c Complex) Complex128() complex128 {
	return complex(c.Re, c.Im)
}

func (c Complex) Conj() Complex {
	return Complex{Re: c.Re, Im: -c.Im}
}

func (c Complex) Mul(o Complex) Complex {
	return Complex{
		Re: c.Re*o.Re - c.Im*o.Im,
		Im: c.Re*o.Im + c.Im*o.Re,
	}
}

// Abs2 is |c|^2.
func (c Complex) Abs2() float64 {
	return c.Re*c.Re + c.Im*c.Im
}

func (c Complex) Abs() float64 {
	return math.Hypot(c.Re, c.Im)
}

// Evaluate computes sum(coeffs[k] * s^k) at s = jω, coefficients ascending
// by power. Powers of jω alternate between real and imaginary, so even terms
// go to Re and odd terms to Im while a running multiplier tracks ±ω^k.
func Evaluate(coeffs []float64, omega float64) Complex {
	var c Complex
	multiplier := 1.0

	for k, a := range coeffs {
		if k%2 == 0 {
			c.Re += a * multiplier
		} else {
			c.Im += a * multiplier
			multiplier = -multiplier
		}
		multiplier *= omega
	}

	return c
}
