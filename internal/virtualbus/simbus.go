package virtualbus

import (
	"sync"

	"github.com/simtools/canbridge/internal/canframe"
)

// SimBus is an in-memory virtual CAN bus for in-process simulation and
// tests. Frames input with SendFrame fan out to subscribers; frames the
// simulated models transmit with Transmit are delivered synchronously to
// the registered callback.
type SimBus struct {
	name       string
	index      int
	fdBaudRate int

	mu         sync.Mutex
	callback   FrameCallback
	scheduling bool
	subs       []chan canframe.Frame
}

// NewSimBus creates a bus with its own output scheduling enabled.
func NewSimBus(name string, index, fdBaudRate int) *SimBus {
	return &SimBus{
		name:       name,
		index:      index,
		fdBaudRate: fdBaudRate,
		scheduling: true,
	}
}

func (b *SimBus) Name() string       { return b.name }
func (b *SimBus) Index() int         { return b.index }
func (b *SimBus) CANFDBaudRate() int { return b.fdBaudRate }

func (b *SimBus) RegisterFrameCallback(fn FrameCallback) {
	b.mu.Lock()
	b.callback = fn
	b.mu.Unlock()
}

func (b *SimBus) DisableOutputScheduling() {
	b.mu.Lock()
	b.scheduling = false
	b.mu.Unlock()
}

// OutputScheduling reports whether the bus still drives its own output
// timing.
func (b *SimBus) OutputScheduling() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scheduling
}

// Subscribe attaches a listener to frames input via SendFrame. Delivery
// is non-blocking: a full subscriber channel drops the frame.
func (b *SimBus) Subscribe(buffer int) <-chan canframe.Frame {
	ch := make(chan canframe.Frame, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// SendFrame inputs a frame into the bus and fans it out to subscribers.
func (b *SimBus) SendFrame(id uint32, payload []byte) error {
	frame := canframe.Frame{ID: id, Data: append([]byte(nil), payload...)}
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- frame:
		default:
		}
	}
	return nil
}

// Transmit simulates a model on the bus transmitting a frame. The
// registered callback observes the attempt synchronously.
func (b *SimBus) Transmit(id uint32, payload []byte) {
	b.mu.Lock()
	fn := b.callback
	b.mu.Unlock()
	if fn != nil {
		fn(id, payload)
	}
}
