// Package hardware provides the physical CAN endpoint of the bridge:
// a non-blocking inbound frame queue over a SocketCAN interface and a
// fire-and-forget outbound write path.
package hardware

import "github.com/simtools/canbridge/internal/canframe"

// Endpoint is the hardware-side contract consumed by the bridge. Reads
// are non-blocking polls against the already-received queue; writes are
// fire-and-forget with no acknowledgment awaited.
type Endpoint interface {
	// QueueEmpty reports whether any received frame is waiting.
	QueueEmpty() bool

	// Pending returns the number of frames waiting at this instant.
	// A drain pass reads at most this many frames so that a busy bus
	// cannot pin the caller in the read loop.
	Pending() int

	// ReadFrame pops the next received frame. ok is false when the
	// queue is empty.
	ReadFrame() (frame canframe.Frame, ok bool)

	// WriteFrame transmits one frame, as CAN-FD when fd is set.
	WriteFrame(id uint32, payload []byte, fd bool) error

	// SetFDMode switches the endpoint between classic CAN and CAN-FD
	// operation. Set once during binding from the paired virtual bus.
	SetFDMode(on bool)

	// FDMode reports the current operating mode.
	FDMode() bool
}
