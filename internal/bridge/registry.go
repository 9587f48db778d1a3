// Package bridge relays CAN frames between a physical hardware endpoint
// and a virtual (software-modeled) CAN bus so that frames observed on
// one side appear on the other as if the two networks were electrically
// joined. The relay is best-effort, single-hop, and runs once per
// scheduling tick; echo loops are suppressed by tracking recently
// relayed identifiers per direction.
package bridge

import (
	"fmt"

	"github.com/simtools/canbridge/internal/config"
	"github.com/simtools/canbridge/internal/hardware"
	"github.com/simtools/canbridge/internal/virtualbus"
)

// Registry sections a virtual bus can be registered under. Name-based
// binding resolves through CanCommunication; the index fallback resolves
// through ComSpec.
const (
	SectionCanCommunication = "CanCommunication"
	SectionComSpec          = "ComSpec"
)

// FrameDescriptor declares the transmit format of one identifier.
type FrameDescriptor struct {
	ID uint32
	FD bool
}

// Registry is the configuration tree the binder resolves endpoints
// from: hardware endpoints owned by the bridge, virtual buses addressed
// by full path, and the frame descriptors the classification table is
// built from. All registrations are typed at load time; there is no
// run-time downcasting during binding.
type Registry struct {
	appName     string
	hardware    []hardware.Endpoint
	virtual     []virtualbus.Bus
	paths       map[string]virtualbus.Bus
	descriptors []FrameDescriptor
}

// NewRegistry creates an empty registry for the named application.
func NewRegistry(appName string) *Registry {
	return &Registry{
		appName: appName,
		paths:   make(map[string]virtualbus.Bus),
	}
}

func (r *Registry) AppName() string { return r.appName }

// AddHardware registers a hardware endpoint as a child of the bridge.
func (r *Registry) AddHardware(ep hardware.Endpoint) {
	r.hardware = append(r.hardware, ep)
}

// AddVirtual registers a virtual bus under the given section. The bus
// becomes addressable as /<app>/<section>/<name>.
func (r *Registry) AddVirtual(section string, bus virtualbus.Bus) {
	r.virtual = append(r.virtual, bus)
	r.paths[fmt.Sprintf("/%s/%s/%s", r.appName, section, bus.Name())] = bus
}

// AddDescriptor records one frame descriptor.
func (r *Registry) AddDescriptor(d FrameDescriptor) {
	r.descriptors = append(r.descriptors, d)
}

// HardwareEndpoints returns the registered hardware endpoints in
// registration order.
func (r *Registry) HardwareEndpoints() []hardware.Endpoint { return r.hardware }

// VirtualBuses returns every registered virtual bus regardless of
// section.
func (r *Registry) VirtualBuses() []virtualbus.Bus { return r.virtual }

// LookupPath resolves a fully-qualified bus path, returning nil when no
// bus is registered there.
func (r *Registry) LookupPath(path string) virtualbus.Bus { return r.paths[path] }

// FrameDescriptors returns all recorded descriptors.
func (r *Registry) FrameDescriptors() []FrameDescriptor { return r.descriptors }

// RegistryFromConfig builds a registry holding the virtual buses and
// frame descriptors declared in cfg. Hardware endpoints and uplink-backed
// buses are attached separately by the caller, since they need live
// connections.
func RegistryFromConfig(cfg *config.Config) (*Registry, error) {
	r := NewRegistry(cfg.App)
	for _, f := range cfg.Frames {
		id, err := config.ParseCanID(f.CanID)
		if err != nil {
			return nil, fmt.Errorf("bridge: bad frame descriptor: %w", err)
		}
		r.AddDescriptor(FrameDescriptor{ID: id, FD: f.FD})
	}
	return r, nil
}
