// Package brownstream is a small audio synthesis toolkit built around one
// job: producing an endless, band-limited brown-noise signal and handing it,
// buffer by buffer, to a hardware-clocked output without interruption.
//
// Everything flows through the Streamer interface. A Streamer produces
// stereo samples on demand; composition helpers in this package and the
// noise, filter and stream subpackages assemble Streamers into the full
// signal path. The same pipeline that feeds the speaker can be rendered to a
// WAV file, so the signal path carries no dependency on audio hardware.
package brownstream

import "time"

// Streamer is able to stream a finite or infinite sequence of audio samples.
type Streamer interface {
	// Stream copies at most len(samples) next audio samples to the samples
	// slice. A sample is a stereo pair of float64 values in the range
	// [-1, +1], left channel first.
	//
	// Stream returns the number of samples it streamed and whether the
	// Streamer is still able to stream more. A short read (n < len(samples))
	// is allowed only when the Streamer is drained or about to drain; once
	// Stream has returned ok == false, all subsequent calls must return
	// (0, false).
	Stream(samples [][2]float64) (n int, ok bool)

	// Err returns an error which explains why the Streamer stopped streaming,
	// or nil if it stopped for natural reasons or still streams.
	Err() error
}

// StreamerFunc turns a function into a Streamer with a nil Err.
type StreamerFunc func(samples [][2]float64) (n int, ok bool)

// Stream calls the wrapped function.
func (sf StreamerFunc) Stream(samples [][2]float64) (n int, ok bool) {
	return sf(samples)
}

// Err always returns nil.
func (sf StreamerFunc) Err() error {
	return nil
}

// SampleRate is the number of samples per second.
type SampleRate int

// D returns the duration of n samples at this sample rate.
func (sr SampleRate) D(n int) time.Duration {
	return time.Second * time.Duration(n) / time.Duration(sr)
}

// N returns the number of samples that last for d at this sample rate.
func (sr SampleRate) N(d time.Duration) int {
	return int(d * time.Duration(sr) / time.Second)
}
