package brownstream

// Gain scales the amplitude of the wrapped Streamer by a constant linear
// factor. Values pushed outside [-1, +1] are clamped at the output boundary
// (see Format), not here, so chained Gains compose without double clipping.
type Gain struct {
	Streamer Streamer
	Gain     float64
}

// Stream streams the wrapped Streamer scaled by Gain.
func (g *Gain) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.Streamer.Stream(samples)
	for i := range samples[:n] {
		samples[i][0] *= g.Gain
		samples[i][1] *= g.Gain
	}
	return n, ok
}

// Err returns the error of the wrapped Streamer.
func (g *Gain) Err() error {
	return g.Streamer.Err()
}
