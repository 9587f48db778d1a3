package bridge

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/simtools/canbridge/internal/hardware"
	"github.com/simtools/canbridge/internal/virtualbus"
)

// Router is the loop-suppression engine between the two endpoints. It
// keeps one membership set per direction and consults them
// asymmetrically: each direction checks only the set written by the
// opposite direction, so a frame born on one side is never mistaken for
// one born on the other even when both carry the same identifier in the
// same tick.
//
// The mutex covers the case where the virtual-side callback fires on a
// different goroutine than the drain tick (the MQTT uplink does this);
// with a single-threaded scheduler it is uncontended.
type Router struct {
	hw      hardware.Endpoint
	virtual virtualbus.Bus
	table   *Table
	powered func() bool
	log     *slog.Logger

	mu           sync.Mutex
	fromVirtual  *idSet // ids recently forwarded virtual -> hardware
	fromHardware *idSet // ids recently forwarded hardware -> virtual
}

// NewRouter wires a router between the two endpoints. window bounds both
// suppression sets; 0 keeps them unbounded.
func NewRouter(hw hardware.Endpoint, virtual virtualbus.Bus, table *Table, powered func() bool, window int, log *slog.Logger) *Router {
	return &Router{
		hw:           hw,
		virtual:      virtual,
		table:        table,
		powered:      powered,
		log:          log,
		fromVirtual:  newIDSet(window),
		fromHardware: newIDSet(window),
	}
}

// DrainHardware empties the hardware inbound queue and relays each frame
// to the virtual bus. The pass is bounded by the frames already queued
// when it starts, so it never blocks waiting for new traffic. When the
// system is unpowered the queue is still drained, but the frames are
// discarded without forwarding or set mutation. Returns the number of
// frames forwarded.
func (r *Router) DrainHardware() int {
	forwarded := 0
	for n := r.hw.Pending(); n > 0; n-- {
		frame, ok := r.hw.ReadFrame()
		if !ok {
			break
		}
		if !r.powered() {
			continue
		}

		r.mu.Lock()
		if r.fromVirtual.Contains(frame.ID) {
			// Echo of a frame this bridge just wrote to hardware.
			r.mu.Unlock()
			continue
		}
		r.fromHardware.Add(frame.ID)
		r.mu.Unlock()

		if err := r.virtual.SendFrame(frame.ID, frame.Data); err != nil {
			r.log.Warn("failed to forward frame to virtual bus",
				"id", fmt.Sprintf("%X", frame.ID), "error", err)
			continue
		}
		forwarded++
	}
	return forwarded
}

// HandleVirtualFrame relays one virtual-side transmission attempt to
// hardware. It is installed as the virtual bus's frame callback during
// binding. Frames whose identifier was just relayed in the opposite
// direction are suppressed as echoes; frames without a descriptor are
// sent as CAN-FD, the superset format, rather than dropped.
func (r *Router) HandleVirtualFrame(id uint32, payload []byte) {
	if !r.powered() {
		return
	}

	r.mu.Lock()
	if r.fromHardware.Contains(id) {
		r.mu.Unlock()
		return
	}
	r.fromVirtual.Add(id)
	r.mu.Unlock()

	fd, known := r.table.Lookup(id)
	if !known {
		fd = true
		r.log.Warn("received undefined CAN frame", "id", fmt.Sprintf("%X", id))
	}
	if err := r.hw.WriteFrame(id, payload, fd); err != nil {
		r.log.Warn("failed to write frame to hardware",
			"id", fmt.Sprintf("%X", id), "error", err)
		return
	}
	if known {
		r.log.Info("CAN frame sent to hardware", "id", fmt.Sprintf("%X", id), "fd", fd)
	}
}
