package brownstream

// Ctrl allows pausing a Streamer. While paused, it streams silence instead of
// pulling from the wrapped Streamer, so the output stays continuous.
//
// Wrap a Ctrl around the Streamer before handing it to the speaker, keep the
// pointer, and flip Paused under speaker.Lock/Unlock.
type Ctrl struct {
	Streamer Streamer
	Paused   bool
}

// Stream streams the wrapped Streamer, or silence while paused.
func (c *Ctrl) Stream(samples [][2]float64) (n int, ok bool) {
	if c.Streamer == nil {
		return 0, false
	}
	if c.Paused {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}
	return c.Streamer.Stream(samples)
}

// Err returns the error of the wrapped Streamer.
func (c *Ctrl) Err() error {
	if c.Streamer == nil {
		return nil
	}
	return c.Streamer.Err()
}
