package bridge

import "log/slog"

// Table maps CAN identifiers to their transmit format. It is built once
// after binding and read-only afterwards. An identifier missing from the
// table is a valid state, not an error; the hardware-write path falls
// back to CAN-FD for it.
type Table struct {
	fd map[uint32]bool
}

// BuildTable builds the classification table from the frame descriptors
// found in the registry. An empty result is tolerated but logged, since
// it usually means the configuration is incomplete.
func BuildTable(descriptors []FrameDescriptor, log *slog.Logger) *Table {
	t := &Table{fd: make(map[uint32]bool, len(descriptors))}
	for _, d := range descriptors {
		t.fd[d.ID] = d.FD
	}
	if len(t.fd) == 0 {
		log.Warn("no frame descriptors found in the configuration")
	}
	return t
}

// Lookup returns the stored format flag for id. known is false when the
// identifier has no descriptor.
func (t *Table) Lookup(id uint32) (fd bool, known bool) {
	fd, known = t.fd[id]
	return fd, known
}

// Len returns the number of classified identifiers.
func (t *Table) Len() int { return len(t.fd) }
