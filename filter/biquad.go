// Package filter implements the fixed recursive filter that shapes white
// noise into band-limited brown noise: a single second-order section designed
// once at startup and run sample by sample for the rest of the session.
package filter

import "math/cmplx"

// Coefficients holds the transfer function coefficients of a single
// second-order section. a0 is normalized to 1 and not stored:
//
//	          B0 + B1*z^-1 + B2*z^-2
//	H(z) = ----------------------------
//	           1 + A1*z^-1 + A2*z^-2
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section is a second-order recursive filter with coefficients and internal
// state, processed in Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
//
// State is held in float64, strictly wider than the 16-bit output samples, so
// the recurrence accumulates no audible quantization drift. A Section is not
// safe for concurrent use; the pipeline owns exactly one and calls it
// strictly sequentially.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section with the given coefficients and zero state.
// The zero state causes a brief settling transient, which is expected.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output. Given
// identical coefficients, state and inputs, the output sequence is
// bit-reproducible.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y
	return y
}

// ProcessBlock filters a block of samples in place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1
	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}
	s.d0, s.d1 = d0, d1
}

// Reset zeroes the filter state registers.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// Poles returns the z-plane poles of the section denominator:
//
//	1 + A1*z^-1 + A2*z^-2 = 0
func (c Coefficients) Poles() [2]complex128 {
	return quadraticRoots(1, c.A1, c.A2)
}

// Zeros returns the z-plane zeros of the section numerator:
//
//	B0 + B1*z^-1 + B2*z^-2 = 0
func (c Coefficients) Zeros() [2]complex128 {
	return quadraticRoots(c.B0, c.B1, c.B2)
}

// Stable reports whether all poles lie strictly inside the unit circle, i.e.
// whether the recurrence is guaranteed not to diverge.
func (c Coefficients) Stable() bool {
	for _, p := range c.Poles() {
		if cmplx.Abs(p) >= 1 {
			return false
		}
	}
	return true
}

func quadraticRoots(a, b, c float64) [2]complex128 {
	if a == 0 {
		if b == 0 {
			return [2]complex128{}
		}
		return [2]complex128{complex(-c/b, 0), 0}
	}
	disc := cmplx.Sqrt(complex(b*b-4*a*c, 0))
	ca, cb := complex(a, 0), complex(b, 0)
	return [2]complex128{
		(-cb + disc) / (2 * ca),
		(-cb - disc) / (2 * ca),
	}
}
