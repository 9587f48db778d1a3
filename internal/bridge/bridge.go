package bridge

import (
	"fmt"
	"log/slog"
	"time"
)

// Options configures one Bridge instance.
type Options struct {
	// Name is the logical bridge name, matched against virtual bus
	// names during binding.
	Name string

	// Index disambiguates the virtual bus when names do not match.
	Index int

	// UpdateInterval is the drain tick period for Run.
	UpdateInterval time.Duration

	// SuppressionWindow bounds the per-direction suppression sets.
	// 0 keeps them unbounded.
	SuppressionWindow int

	// Powered reports whether the attached system is available. When
	// it returns false, no frame is forwarded in either direction.
	Powered func() bool

	Logger *slog.Logger
}

// Bridge couples one hardware CAN endpoint with one virtual CAN bus and
// relays frames between them once per tick.
type Bridge struct {
	name     string
	binding  *Binding
	router   *Router
	table    *Table
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	log      *slog.Logger
}

// New binds the endpoints out of the registry, builds the frame
// classification table, and installs the router as the virtual bus's
// frame observer. Binding failures are fatal: a bridge that cannot
// resolve both endpoints is unusable.
func New(reg *Registry, opts Options) (*Bridge, error) {
	if opts.Powered == nil {
		return nil, fmt.Errorf("bridge: no availability source configured")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	interval := opts.UpdateInterval
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}

	binding, err := Bind(reg, opts.Name, opts.Index, log)
	if err != nil {
		return nil, err
	}

	table := BuildTable(reg.FrameDescriptors(), log)
	router := NewRouter(binding.Hardware, binding.Virtual, table, opts.Powered, opts.SuppressionWindow, log)

	// Every virtual-side transmission attempt is observed synchronously
	// from here on.
	binding.Virtual.RegisterFrameCallback(router.HandleVirtualFrame)

	b := &Bridge{
		name:     opts.Name,
		binding:  binding,
		router:   router,
		table:    table,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      log,
	}
	log.Info("bridge initialized",
		"name", b.name, "index", binding.Index,
		"virtual_bus", binding.Virtual.Name(),
		"fd_mode", binding.Hardware.FDMode(),
		"classified_frames", table.Len())
	return b, nil
}

// Update runs one scheduling tick: drain everything pending on the
// hardware side through the router. Virtual-to-hardware traffic does not
// pass through here; it arrives through the registered callback.
func (b *Bridge) Update() {
	b.router.DrainHardware()
}

// Run ticks Update at the configured interval until Stop is called.
func (b *Bridge) Run() {
	defer close(b.done)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.log.Info("bridge running", "name", b.name, "interval", b.interval)
	for {
		select {
		case <-b.stop:
			b.log.Info("bridge stopped", "name", b.name)
			return
		case <-ticker.C:
			b.Update()
		}
	}
}

// Stop terminates Run and waits for the loop to exit.
func (b *Bridge) Stop() {
	select {
	case <-b.stop:
	default:
		close(b.stop)
	}
	<-b.done
}

// Binding returns the resolved endpoint pair.
func (b *Bridge) Binding() *Binding { return b.binding }

// String describes the bridge for debugging.
func (b *Bridge) String() string {
	return fmt.Sprintf("[Bridge]\n- name: %s\n- index: %d\n- virtual bus: %s\n- fd mode: %t\n",
		b.name, b.binding.Index, b.binding.Virtual.Name(), b.binding.Hardware.FDMode())
}
