// Command brownstream streams band-limited brown noise to the default audio
// device, or renders it to a WAV file for offline inspection. Both modes run
// the identical signal path.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/electronjoe/brownstream"
	"github.com/electronjoe/brownstream/noise"
	"github.com/electronjoe/brownstream/speaker"
	"github.com/electronjoe/brownstream/wav"
)

func main() {
	var (
		sampleRate = flag.Int("samplerate", 44100, "output sample rate in Hz")
		center     = flag.Float64("center", 146, "shaping filter center frequency in Hz")
		bandwidth  = flag.Float64("bandwidth", 0.2, "fractional filter bandwidth, in (0, 1)")
		gain       = flag.Float64("gain", noise.DefaultGain, "linear output gain")
		seed       = flag.Uint64("seed", 0, "noise seed, 0 for the default")
		duration   = flag.Duration("duration", 0, "how long to stream; 0 plays until interrupted")
		out        = flag.String("o", "", "render to this WAV file instead of playing")
		bufLen     = flag.Int("buflen", 512, "transfer buffer length in samples")
		bufCount   = flag.Int("bufcount", 3, "number of pre-allocated transfer buffers (at least 2)")
	)
	flag.Parse()

	sr := brownstream.SampleRate(*sampleRate)
	src, err := noise.Brown(noise.Config{
		SampleRate: sr,
		CenterFreq: *center,
		Bandwidth:  *bandwidth,
		Gain:       *gain,
		Seed:       *seed,
	})
	if err != nil {
		log.Fatalf("pipeline: %s", err)
	}

	if *out != "" {
		render(sr, src, *out, *duration)
		return
	}

	if err := speaker.Init(sr, src, *bufLen, *bufCount); err != nil {
		log.Fatalf("speaker: %s", err)
	}
	defer speaker.Close()

	log.Printf("playing brown noise at %d Hz, center %g Hz", *sampleRate, *center)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	if *duration > 0 {
		select {
		case <-time.After(*duration):
		case <-sig:
		}
	} else {
		<-sig
	}

	if err := speaker.Err(); err != nil {
		log.Fatalf("stream: %s", err)
	}
}

func render(sr brownstream.SampleRate, src brownstream.Streamer, out string, duration time.Duration) {
	if duration <= 0 {
		duration = 10 * time.Second
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatalf("create: %s: %s", out, err)
	}

	format := brownstream.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, brownstream.Take(sr.N(duration), src), format); err != nil {
		log.Fatalf("encode: %s", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close: %s: %s", out, err)
	}

	log.Printf("wrote %v of brown noise to %s", duration, out)
}
