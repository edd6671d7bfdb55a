// Package speaker plays a Streamer through the audio device. It is the
// concrete bus driver of the pipeline: the device's pull clock is the sole
// timing authority, and every fully consumed buffer triggers exactly one
// transfer-complete notification on the stream.Manager, in submission order.
package speaker

import (
	"sync"

	"github.com/hajimehoshi/oto/v2"
	"github.com/pkg/errors"

	"github.com/electronjoe/brownstream"
	"github.com/electronjoe/brownstream/stream"
)

const (
	channelCount    = 2
	bitDepthInBytes = 2
	bytesPerSample  = channelCount * bitDepthInBytes
)

var (
	mu      sync.Mutex
	context *oto.Context
	player  oto.Player
	mgr     *stream.Manager
	drv     *driver
)

// Init initializes playback of s through the speaker. Must be called once,
// before any other function of this package.
//
// bufferLen is the length of each transfer buffer in samples and numBuffers
// the size of the pre-allocated pool (≥ 2). Together they set the output
// latency and the safety margin against missed deadlines.
func Init(sampleRate brownstream.SampleRate, s brownstream.Streamer, bufferLen, numBuffers int) error {
	mu.Lock()
	defer mu.Unlock()

	if context != nil {
		return errors.New("speaker cannot be initialized more than once")
	}

	m, err := stream.NewManager(s, stream.Config{BufferLen: bufferLen, NumBuffers: numBuffers})
	if err != nil {
		return errors.Wrap(err, "failed to initialize speaker")
	}

	var readyChan chan struct{}
	context, readyChan, err = oto.NewContext(int(sampleRate), channelCount, bitDepthInBytes)
	if err != nil {
		context = nil
		return errors.Wrap(err, "failed to initialize speaker")
	}
	<-readyChan

	d := &driver{scratch: make([]byte, bufferLen*bytesPerSample)}
	if err := m.Start(d); err != nil {
		return errors.Wrap(err, "failed to start streaming")
	}
	mgr = m
	drv = d

	player = context.NewPlayer(d)
	if setter, ok := player.(oto.BufferSizeSetter); ok {
		setter.SetBufferSize(bufferLen * bytesPerSample)
	}
	player.Play()

	return nil
}

// Close stops playback. The buffer currently owned by the device completes;
// no new transfers are issued.
func Close() {
	if player != nil {
		player.Close()
		player = nil
	}
	mu.Lock()
	if mgr != nil {
		mgr.Stop()
	}
	mu.Unlock()
}

// Err returns the fatal error that ended streaming, if any. An underrun
// surfaces here as stream.ErrUnderrun while the device keeps receiving
// silence, never stale samples.
func Err() error {
	mu.Lock()
	defer mu.Unlock()
	if drv == nil {
		return nil
	}
	return drv.err
}

// Lock locks the speaker. While locked, the device pull loop won't advance
// the pipeline. Lock before mutating a playing Streamer (Ctrl, Gain) and
// unlock as quickly as possible to avoid playback glitches.
func Lock() {
	mu.Lock()
}

// Unlock unlocks the speaker. Call after mutating any playing Streamer.
func Unlock() {
	mu.Unlock()
}

// driver adapts the stream.Bus contract to oto's pull model. Submit encodes
// the block into a fixed scratch buffer; Read drains it at the device's pace
// and reports the transfer complete the moment the last byte is consumed.
type driver struct {
	scratch []byte
	pending []byte
	done    bool
	err     error
}

// Submit encodes block as interleaved signed 16-bit little-endian samples.
// Called by the Manager only while no bytes of the previous block remain, so
// the scratch buffer is never aliased.
func (d *driver) Submit(block [][2]float64) error {
	n := 0
	for i := range block {
		for c := range block[i] {
			val := block[i][c]
			if val < -1 {
				val = -1
			}
			if val > +1 {
				val = +1
			}
			v := int16(val * (1<<15 - 1))
			d.scratch[n] = byte(v)
			d.scratch[n+1] = byte(v >> 8)
			n += 2
		}
	}
	d.pending = d.scratch[:n]
	return nil
}

// Read hands the device the bytes of the in-flight block. Exhausting the
// block is the completion event: OnTransferComplete retires it and submits
// the next one before the device consumes another byte. After a stop or a
// fatal error, Read yields silence so the device is never fed garbage.
func (d *driver) Read(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()

	if len(d.pending) == 0 && d.err == nil && !d.done {
		if err := mgr.OnTransferComplete(); err != nil {
			d.err = err
		} else if len(d.pending) == 0 {
			// Stopped: the manager retired the last transfer without a
			// successor.
			d.done = true
		}
	}
	if len(d.pending) == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}
