// Package stream keeps a hardware-clocked bus driver continuously fed from a
// Streamer through a fixed pool of pre-allocated sample buffers.
//
// The Manager owns N ≥ 2 buffers cycling through three states:
//
//	Filling → Ready → InFlight → Filling
//
// Software touches a buffer only while it is Filling or Ready; the bus owns
// it while InFlight. The bus driver's completion notification, delivered by
// calling OnTransferComplete, is the single point where ownership flips —
// there are no locks, no timeouts and no allocation after construction.
package stream

import (
	"github.com/pkg/errors"

	"github.com/electronjoe/brownstream"
)

// ErrUnderrun is reported when no Ready buffer exists at the moment the bus
// completes a transfer. An audio deadline cannot be retried after the fact,
// so the Manager ceases submissions instead of handing the bus stale samples.
var ErrUnderrun = errors.New("stream: buffer underrun")

// State is the ownership state of one buffer in the pool.
type State uint8

const (
	// Filling marks a buffer owned by software, not yet holding valid samples.
	Filling State = iota
	// Ready marks a filled buffer waiting to be submitted.
	Ready
	// InFlight marks the buffer owned by the bus hardware.
	InFlight
)

func (s State) String() string {
	switch s {
	case Filling:
		return "Filling"
	case Ready:
		return "Ready"
	case InFlight:
		return "InFlight"
	}
	return "Unknown"
}

// Bus is the consumed interface of the serial-audio bus driver. Submit hands
// a filled buffer to the hardware; the driver must later report completion of
// each submitted buffer exactly once, in submission order, by calling
// OnTransferComplete on the Manager that submitted it.
//
// The submitted slice is owned by the Bus until that completion call.
type Bus interface {
	Submit(block [][2]float64) error
}

// Config holds the pool geometry. Larger values trade latency for safety
// margin against missed deadlines.
type Config struct {
	// BufferLen is the length of each buffer in sample frames. Must be ≥ 1.
	BufferLen int

	// NumBuffers is the number of pre-allocated buffers. Must be ≥ 2.
	NumBuffers int
}

func (cfg Config) validate() error {
	if cfg.BufferLen < 1 {
		return errors.Errorf("stream: buffer length must be at least 1, got %d", cfg.BufferLen)
	}
	if cfg.NumBuffers < 2 {
		return errors.Errorf("stream: buffer count must be at least 2, got %d", cfg.NumBuffers)
	}
	return nil
}

// Manager drives the fill/drain cycle. It is not internally synchronized:
// the caller must serialize Start, OnTransferComplete and Stop (the speaker
// package does this under its pull-loop lock).
type Manager struct {
	src  brownstream.Streamer
	bus  Bus
	bufs [][][2]float64
	st   []State

	next    int // pool index of the buffer to submit next
	flight  int // pool index of the InFlight buffer, -1 if none
	stopped bool
	err     error
}

// NewManager allocates the pool and pre-fills every buffer, so the session
// starts with the maximum safety margin already banked. No further
// allocation happens for the lifetime of the Manager.
func NewManager(src brownstream.Streamer, cfg Config) (*Manager, error) {
	if src == nil {
		return nil, errors.New("stream: nil source streamer")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		src:    src,
		bufs:   make([][][2]float64, cfg.NumBuffers),
		st:     make([]State, cfg.NumBuffers),
		flight: -1,
	}
	for i := range m.bufs {
		m.bufs[i] = make([][2]float64, cfg.BufferLen)
		m.fill(i)
	}
	return m, nil
}

// Start submits the first Ready buffer to bus. From this point until Stop or
// a fatal error, exactly one buffer is InFlight at all times.
func (m *Manager) Start(bus Bus) error {
	if bus == nil {
		return errors.New("stream: nil bus")
	}
	if m.bus != nil {
		return errors.New("stream: already started")
	}
	m.bus = bus
	return m.submitNext()
}

// OnTransferComplete is the bus driver's completion notification and the
// only place buffer ownership flips. In order it (a) retires the completed
// buffer to Filling, (b) submits the oldest Ready buffer so the hardware is
// never left waiting on the producer, and (c) refills the retired buffer for
// the cycle after next. Bounded work, no blocking, no allocation.
//
// If no Ready buffer exists, it returns ErrUnderrun and submits nothing:
// the stream ends rather than repeating or corrupting samples.
func (m *Manager) OnTransferComplete() error {
	if m.flight < 0 {
		return errors.New("stream: transfer-complete with no transfer in flight")
	}
	retired := m.flight
	m.st[retired] = Filling
	m.flight = -1

	if m.stopped {
		return nil
	}
	if err := m.submitNext(); err != nil {
		m.err = err
		return err
	}
	m.fill(retired)
	return nil
}

// Stop ceases issuing new transfers. The current InFlight buffer, if any,
// completes normally and is retired by its OnTransferComplete call.
func (m *Manager) Stop() {
	m.stopped = true
}

// Err returns the fatal error that ended the session, if any.
func (m *Manager) Err() error {
	return m.err
}

func (m *Manager) submitNext() error {
	if m.st[m.next] != Ready {
		return ErrUnderrun
	}
	i := m.next
	m.st[i] = InFlight
	m.flight = i
	m.next = (i + 1) % len(m.bufs)
	if err := m.bus.Submit(m.bufs[i]); err != nil {
		return errors.Wrap(err, "stream: submit")
	}
	return nil
}

// fill draws samples from the source into buffer i. A fully (or partially,
// zero-padded) filled buffer becomes Ready; if the source is already drained
// the buffer stays Filling, which surfaces as ErrUnderrun when the bus next
// needs it.
func (m *Manager) fill(i int) {
	buf := m.bufs[i]
	total := 0
	for total < len(buf) {
		n, ok := m.src.Stream(buf[total:])
		total += n
		if !ok {
			break
		}
	}
	if total == 0 {
		return
	}
	for j := total; j < len(buf); j++ {
		buf[j] = [2]float64{}
	}
	m.st[i] = Ready
}
