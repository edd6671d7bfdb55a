package filter

import (
	"math"

	"github.com/pkg/errors"
)

// Bandpass designs a first-order Butterworth bandpass with band edges at
// center*(1-bandwidth) and center*(1+bandwidth) Hz. bandwidth is fractional
// and must lie in (0, 1).
//
// The analog prototype BW*s / (s^2 + BW*s + w0^2) is digitized with the
// bilinear transform after prewarping both band edges, which reproduces the
// classic Butterworth band design to full float64 precision. The resulting
// numerator is K*(1 - z^-2): its zeros at z = ±1 null DC and Nyquist, so a
// white-noise input integrates into a brown-noise spectrum above the band
// without accumulating DC drift.
//
// The design is rejected with an error if any parameter is out of range or
// if the resulting section is not strictly stable.
func Bandpass(center, bandwidth, sampleRate float64) (Coefficients, error) {
	if sampleRate <= 0 {
		return Coefficients{}, errors.Errorf("filter: sample rate must be positive, got %v", sampleRate)
	}
	if center <= 0 {
		return Coefficients{}, errors.Errorf("filter: center frequency must be positive, got %v", center)
	}
	if bandwidth <= 0 || bandwidth >= 1 {
		return Coefficients{}, errors.Errorf("filter: bandwidth must be in (0, 1), got %v", bandwidth)
	}

	lower := center * (1 - bandwidth)
	upper := center * (1 + bandwidth)
	if upper >= sampleRate/2 {
		return Coefficients{}, errors.Errorf(
			"filter: upper band edge %v Hz is at or above Nyquist (%v Hz)", upper, sampleRate/2)
	}

	// Prewarp the band edges onto the analog axis.
	w1 := 2 * sampleRate * math.Tan(math.Pi*lower/sampleRate)
	w2 := 2 * sampleRate * math.Tan(math.Pi*upper/sampleRate)
	bw := w2 - w1
	w0sq := w1 * w2

	// Bilinear transform with k = 2*fs, normalized so a0 = 1.
	k := 2 * sampleRate
	d := k*k + bw*k + w0sq

	c := Coefficients{
		B0: bw * k / d,
		B1: 0,
		B2: -bw * k / d,
		A1: (2*w0sq - 2*k*k) / d,
		A2: (k*k - bw*k + w0sq) / d,
	}

	if !c.Stable() {
		return Coefficients{}, errors.Errorf(
			"filter: design for center=%v bandwidth=%v rate=%v is unstable", center, bandwidth, sampleRate)
	}
	return c, nil
}
