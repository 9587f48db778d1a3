package hardware

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/brutella/can"

	"github.com/simtools/canbridge/internal/canframe"
)

// DefaultQueueSize bounds the inbound frame queue when the config does
// not set one.
const DefaultQueueSize = 256

// SocketCAN is an Endpoint backed by a Linux SocketCAN interface via
// brutella/can. Received frames are pushed by the library's subscription
// callback into a bounded queue; when the queue is full the newest frame
// is dropped and counted, never queued elsewhere.
type SocketCAN struct {
	iface   string
	bus     *can.Bus
	rx      chan canframe.Frame
	fdMode  atomic.Bool
	dropped atomic.Uint64
	log     *slog.Logger
}

// NewSocketCAN opens the named CAN interface and starts the receive
// loop in its own goroutine.
func NewSocketCAN(iface string, queueSize int, log *slog.Logger) (*SocketCAN, error) {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	bus, err := can.NewBusForInterfaceWithName(iface)
	if err != nil {
		return nil, fmt.Errorf("hardware: failed to open CAN interface %s: %w", iface, err)
	}

	s := &SocketCAN{
		iface: iface,
		bus:   bus,
		rx:    make(chan canframe.Frame, queueSize),
		log:   log,
	}
	s.bus.SubscribeFunc(s.handleFrame)

	go func() {
		if err := s.bus.ConnectAndPublish(); err != nil {
			s.log.Warn("CAN receive loop terminated", "interface", s.iface, "error", err)
		}
	}()

	return s, nil
}

// handleFrame is invoked by brutella/can for every received frame.
func (s *SocketCAN) handleFrame(f can.Frame) {
	frame := canframe.Frame{
		ID:   f.ID & canframe.IdentifierMask,
		Data: append([]byte(nil), f.Data[:f.Length]...),
	}
	select {
	case s.rx <- frame:
	default:
		if s.dropped.Add(1)%100 == 1 {
			s.log.Warn("inbound CAN queue full, dropping frame",
				"interface", s.iface, "id", fmt.Sprintf("%X", frame.ID), "dropped_total", s.dropped.Load())
		}
	}
}

func (s *SocketCAN) QueueEmpty() bool { return len(s.rx) == 0 }

func (s *SocketCAN) Pending() int { return len(s.rx) }

func (s *SocketCAN) ReadFrame() (canframe.Frame, bool) {
	select {
	case f := <-s.rx:
		return f, true
	default:
		return canframe.Frame{}, false
	}
}

// WriteFrame publishes one frame to the interface. brutella/can carries
// classic frames only, so payloads beyond 8 bytes are truncated with a
// warning even when fd is set.
func (s *SocketCAN) WriteFrame(id uint32, payload []byte, fd bool) error {
	data := payload
	if len(data) > canframe.MaxClassicPayload {
		s.log.Warn("truncating payload to classic CAN frame size",
			"interface", s.iface, "id", fmt.Sprintf("%X", id), "len", len(data), "fd", fd)
		data = data[:canframe.MaxClassicPayload]
	}

	frame := can.Frame{ID: id, Length: uint8(len(data))}
	copy(frame.Data[:], data)
	if err := s.bus.Publish(frame); err != nil {
		return fmt.Errorf("hardware: failed to publish frame %X on %s: %w", id, s.iface, err)
	}
	return nil
}

func (s *SocketCAN) SetFDMode(on bool) { s.fdMode.Store(on) }

func (s *SocketCAN) FDMode() bool { return s.fdMode.Load() }

// Dropped returns the number of inbound frames discarded because the
// queue was full.
func (s *SocketCAN) Dropped() uint64 { return s.dropped.Load() }

// Close disconnects from the CAN interface.
func (s *SocketCAN) Close() error {
	return s.bus.Disconnect()
}
