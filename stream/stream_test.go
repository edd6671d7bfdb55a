package stream

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/electronjoe/brownstream"
)

// rampStreamer emits an endless ramp of distinct sample values, so tests can
// check that submitted buffers carry contiguous, in-order signal.
type rampStreamer struct {
	next float64
}

func (r *rampStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		samples[i][0] = r.next
		samples[i][1] = r.next
		r.next++
	}
	return len(samples), true
}

func (r *rampStreamer) Err() error { return nil }

// recordingBus captures every submitted block: its backing array identity and
// the first sample value at submission time.
type recordingBus struct {
	arrays []*[2]float64
	firsts []float64
	err    error
}

func (b *recordingBus) Submit(block [][2]float64) error {
	if b.err != nil {
		return b.err
	}
	b.arrays = append(b.arrays, &block[0])
	b.firsts = append(b.firsts, block[0][0])
	return nil
}

func (m *Manager) countState(s State) int {
	n := 0
	for _, st := range m.st {
		if st == s {
			n++
		}
	}
	return n
}

func TestNewManagerValidation(t *testing.T) {
	src := &rampStreamer{}
	if _, err := NewManager(nil, Config{BufferLen: 8, NumBuffers: 2}); err == nil {
		t.Error("nil source accepted")
	}
	if _, err := NewManager(src, Config{BufferLen: 0, NumBuffers: 2}); err == nil {
		t.Error("zero buffer length accepted")
	}
	if _, err := NewManager(src, Config{BufferLen: 8, NumBuffers: 1}); err == nil {
		t.Error("single buffer accepted")
	}
	if _, err := NewManager(src, Config{BufferLen: 8, NumBuffers: 2}); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestPreFillAndExactlyOneInFlight(t *testing.T) {
	m, err := NewManager(&rampStreamer{}, Config{BufferLen: 16, NumBuffers: 3})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.countState(Ready); got != 3 {
		t.Fatalf("after construction: %d Ready buffers, want 3", got)
	}
	if m.flight != -1 {
		t.Fatalf("after construction: buffer %d in flight, want none", m.flight)
	}

	bus := &recordingBus{}
	if err := m.Start(bus); err != nil {
		t.Fatal(err)
	}

	for cycle := 0; cycle < 50; cycle++ {
		if got := m.countState(InFlight); got != 1 {
			t.Fatalf("cycle %d: %d buffers InFlight, want exactly 1", cycle, got)
		}
		if m.countState(InFlight)+m.countState(Ready)+m.countState(Filling) != 3 {
			t.Fatalf("cycle %d: buffer state accounting broken: %v", cycle, m.st)
		}
		if err := m.OnTransferComplete(); err != nil {
			t.Fatalf("cycle %d: %v", cycle, err)
		}
	}
}

func TestSubmissionOrderAndContinuity(t *testing.T) {
	const bufferLen = 32
	m, err := NewManager(&rampStreamer{}, Config{BufferLen: bufferLen, NumBuffers: 2})
	if err != nil {
		t.Fatal(err)
	}
	bus := &recordingBus{}
	if err := m.Start(bus); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if err := m.OnTransferComplete(); err != nil {
			t.Fatal(err)
		}
	}

	for i, first := range bus.firsts {
		if want := float64(i * bufferLen); first != want {
			t.Fatalf("block %d starts at sample value %v, want %v (stale or out-of-order data)", i, first, want)
		}
	}
}

func TestBuffersAreReusedNotReallocated(t *testing.T) {
	const numBuffers = 3
	m, err := NewManager(&rampStreamer{}, Config{BufferLen: 8, NumBuffers: numBuffers})
	if err != nil {
		t.Fatal(err)
	}
	bus := &recordingBus{}
	if err := m.Start(bus); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		if err := m.OnTransferComplete(); err != nil {
			t.Fatal(err)
		}
	}

	distinct := map[*[2]float64]bool{}
	for _, p := range bus.arrays {
		distinct[p] = true
	}
	if len(distinct) != numBuffers {
		t.Fatalf("%d distinct backing arrays submitted, want %d (pool must not allocate)", len(distinct), numBuffers)
	}
}

func TestUnderrunIsFatalAndDistinct(t *testing.T) {
	const bufferLen = 16
	// Exactly two buffers worth of signal: the pre-fill drains the source
	// completely, so the first retirement cannot be refilled.
	src := brownstream.Take(2*bufferLen, &rampStreamer{})
	m, err := NewManager(src, Config{BufferLen: bufferLen, NumBuffers: 2})
	if err != nil {
		t.Fatal(err)
	}
	bus := &recordingBus{}
	if err := m.Start(bus); err != nil {
		t.Fatal(err)
	}

	// First completion still has the second pre-filled buffer to hand over.
	if err := m.OnTransferComplete(); err != nil {
		t.Fatal(err)
	}
	// Second completion finds nothing Ready.
	err = m.OnTransferComplete()
	if !errors.Is(err, ErrUnderrun) {
		t.Fatalf("got %v, want ErrUnderrun", err)
	}
	if !errors.Is(m.Err(), ErrUnderrun) {
		t.Fatalf("Err() = %v, want ErrUnderrun", m.Err())
	}
	if len(bus.firsts) != 2 {
		t.Fatalf("%d blocks submitted after underrun, want 2 (no stale data)", len(bus.firsts))
	}
	if m.countState(InFlight) != 0 {
		t.Fatalf("buffer left InFlight after fatal underrun")
	}
}

func TestStopRetiresWithoutSuccessor(t *testing.T) {
	m, err := NewManager(&rampStreamer{}, Config{BufferLen: 8, NumBuffers: 2})
	if err != nil {
		t.Fatal(err)
	}
	bus := &recordingBus{}
	if err := m.Start(bus); err != nil {
		t.Fatal(err)
	}
	m.Stop()

	if err := m.OnTransferComplete(); err != nil {
		t.Fatalf("completion after Stop: %v", err)
	}
	if m.countState(InFlight) != 0 {
		t.Fatal("transfer issued after Stop")
	}
	if len(bus.firsts) != 1 {
		t.Fatalf("%d blocks submitted, want 1", len(bus.firsts))
	}
	if m.Err() != nil {
		t.Fatalf("clean stop recorded error %v", m.Err())
	}
}

func TestCompletionWithoutTransferInFlight(t *testing.T) {
	m, err := NewManager(&rampStreamer{}, Config{BufferLen: 8, NumBuffers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.OnTransferComplete(); err == nil {
		t.Fatal("completion before Start accepted")
	}
}

func TestStartTwice(t *testing.T) {
	m, err := NewManager(&rampStreamer{}, Config{BufferLen: 8, NumBuffers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Start(&recordingBus{}); err != nil {
		t.Fatal(err)
	}
	if err := m.Start(&recordingBus{}); err == nil {
		t.Fatal("second Start accepted")
	}
}

func TestSubmitErrorPropagates(t *testing.T) {
	m, err := NewManager(&rampStreamer{}, Config{BufferLen: 8, NumBuffers: 2})
	if err != nil {
		t.Fatal(err)
	}
	busErr := errors.New("bus rejected transfer")
	if err := m.Start(&recordingBus{err: busErr}); !errors.Is(err, busErr) {
		t.Fatalf("got %v, want wrapped bus error", err)
	}
}
