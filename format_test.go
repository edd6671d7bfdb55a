package brownstream_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/electronjoe/brownstream"
)

func TestFormatClampsNeverWraps(t *testing.T) {
	format := brownstream.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	p := make([]byte, format.Width())

	format.EncodeSigned(p, [2]float64{2.5, -17})
	decoded, _ := format.DecodeSigned(p)
	if decoded[0] != 1 || decoded[1] != -1 {
		t.Fatalf("out-of-range sample decoded as %v, want {1, -1}", decoded)
	}

	format.EncodeUnsigned(p, [2]float64{1e9, -1e9})
	decoded, _ = format.DecodeUnsigned(p)
	if decoded[0] != 1 || decoded[1] != -1 {
		t.Fatalf("out-of-range unsigned sample decoded as %v, want {1, -1}", decoded)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, precision := range []int{1, 2, 3} {
		for _, numChannels := range []int{1, 2} {
			format := brownstream.Format{SampleRate: 44100, NumChannels: numChannels, Precision: precision}
			deviation := 2.0 / (math.Pow(2, float64(precision)*8) - 2)
			p := make([]byte, format.Width())

			for i := 0; i < 50; i++ {
				sample := [2]float64{rng.Float64()*2 - 1, rng.Float64()*2 - 1}
				if numChannels == 1 {
					mono := (sample[0] + sample[1]) / 2
					sample = [2]float64{mono, mono}
				}

				format.EncodeSigned(p, sample)
				decoded, n := format.DecodeSigned(p)
				if n != format.Width() {
					t.Fatalf("decode consumed %d bytes, want %d", n, format.Width())
				}
				if math.Abs(decoded[0]-sample[0]) > deviation || math.Abs(decoded[1]-sample[1]) > deviation {
					t.Fatalf("signed round trip drifted: %v -> %v (precision %d)", sample, decoded, precision)
				}

				format.EncodeUnsigned(p, sample)
				decoded, _ = format.DecodeUnsigned(p)
				if math.Abs(decoded[0]-sample[0]) > deviation || math.Abs(decoded[1]-sample[1]) > deviation {
					t.Fatalf("unsigned round trip drifted: %v -> %v (precision %d)", sample, decoded, precision)
				}
			}
		}
	}
}
