package brownstream

// Silence returns a Streamer which streams n samples of silence. If n is
// negative, silence is streamed forever.
func Silence(n int) Streamer {
	return StreamerFunc(func(samples [][2]float64) (sn int, ok bool) {
		if n == 0 {
			return 0, false
		}
		for i := range samples {
			if n == 0 {
				break
			}
			samples[i] = [2]float64{}
			sn++
			if n > 0 {
				n--
			}
		}
		return sn, true
	})
}

// Take returns a Streamer which streams at most n samples from s. It is the
// usual way to put a duration limit on the otherwise endless noise pipeline.
//
// The returned Streamer propagates s's errors through Err.
func Take(n int, s Streamer) Streamer {
	return &take{s: s, remaining: n}
}

type take struct {
	s         Streamer
	remaining int
}

func (t *take) Stream(samples [][2]float64) (n int, ok bool) {
	if t.remaining <= 0 {
		return 0, false
	}
	toStream := t.remaining
	if len(samples) < toStream {
		toStream = len(samples)
	}
	n, ok = t.s.Stream(samples[:toStream])
	t.remaining -= n
	return n, ok
}

func (t *take) Err() error {
	return t.s.Err()
}
