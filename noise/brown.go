package noise

import (
	"github.com/pkg/errors"

	"github.com/electronjoe/brownstream"
	"github.com/electronjoe/brownstream/filter"
)

// DefaultGain is the linear output gain applied when Config.Gain is zero. It
// leaves generous headroom so the shaped noise never lives near the clamp.
const DefaultGain = 0.25

// Config holds the parameters of the brown-noise pipeline, fixed for the
// lifetime of the session.
type Config struct {
	// SampleRate is the output sample rate in Hz. Required.
	SampleRate brownstream.SampleRate

	// CenterFreq is the center frequency of the shaping filter in Hz.
	// Required.
	CenterFreq float64

	// Bandwidth is the fractional bandwidth of the shaping filter: the band
	// edges sit at CenterFreq*(1±Bandwidth). Must be in (0, 1).
	Bandwidth float64

	// Gain is the linear output gain. Zero selects DefaultGain.
	Gain float64

	// Seed seeds the white-noise source. Zero selects a fixed default, so
	// the zero value still streams; pass distinct seeds to get distinct
	// (but statistically identical) realizations.
	Seed uint64
}

// Brown returns the complete signal path as an endless Streamer: white noise
// integrated into brown noise by a band-limiting filter, scaled and clamped
// to [-1, +1].
//
// One noise source and one filter are shared by both channels, so left and
// right carry the same signal. Decorrelated channels would need a second
// source+filter pair per frame on the fill path; the correlated variant is
// the fixed choice here.
//
// The Streamer touches no audio hardware and allocates nothing while
// streaming, so it can be rendered offline (see the wav package) as well as
// fed to the speaker.
func Brown(cfg Config) (brownstream.Streamer, error) {
	if cfg.SampleRate <= 0 {
		return nil, errors.Errorf("noise: sample rate must be positive, got %v", cfg.SampleRate)
	}
	coeffs, err := filter.Bandpass(cfg.CenterFreq, cfg.Bandwidth, float64(cfg.SampleRate))
	if err != nil {
		return nil, errors.Wrap(err, "noise")
	}
	gain := cfg.Gain
	if gain == 0 {
		gain = DefaultGain
	}
	return &brown{
		src:  NewSource(cfg.Seed),
		sec:  filter.NewSection(coeffs),
		gain: gain,
	}, nil
}

type brown struct {
	src  *Source
	sec  *filter.Section
	gain float64
}

func (b *brown) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := b.sec.ProcessSample(b.src.Next()) * b.gain
		if v < -1 {
			v = -1
		} else if v > 1 {
			v = 1
		}
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (b *brown) Err() error {
	return nil
}
