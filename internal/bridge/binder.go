package bridge

import (
	"fmt"
	"log/slog"

	"github.com/simtools/canbridge/internal/hardware"
	"github.com/simtools/canbridge/internal/virtualbus"
)

// Binding is the resolved endpoint pair one bridge instance serves.
type Binding struct {
	Hardware hardware.Endpoint
	Virtual  virtualbus.Bus
	Index    int
}

// Bind resolves the hardware and virtual endpoints for the bridge named
// name with the configured index, then couples them: the hardware
// endpoint inherits the virtual bus's CAN-FD mode and the virtual bus
// stops driving its own output timing.
//
// Resolution rules:
//   - hardware: first registered endpoint; more than one candidate is a
//     tolerated misconfiguration (warned), none is fatal.
//   - virtual: by name under CanCommunication first; on a miss, by index
//     across all buses, re-resolved by path under ComSpec. Failure of
//     both is fatal.
func Bind(reg *Registry, name string, index int, log *slog.Logger) (*Binding, error) {
	endpoints := reg.HardwareEndpoints()
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("bridge: no hardware CAN endpoints registered")
	}
	if len(endpoints) > 1 {
		log.Warn("multiple hardware CAN endpoints are registered, using the first one",
			"count", len(endpoints))
	}
	hw := endpoints[0]
	if hw == nil {
		return nil, fmt.Errorf("bridge: hardware CAN endpoint is nil")
	}

	buses := reg.VirtualBuses()
	if len(buses) == 0 {
		return nil, fmt.Errorf("bridge: no virtual CAN buses found in the configuration")
	}

	fullName := fmt.Sprintf("/%s/%s/%s", reg.AppName(), SectionCanCommunication, name)
	virtual := reg.LookupPath(fullName)
	if virtual == nil {
		// Names don't match: fall back to searching by index.
		for _, bus := range buses {
			if bus.Index() != index {
				continue
			}
			log.Info("CAN interface name mismatch, using CAN bus index", "index", index)
			fullName = fmt.Sprintf("/%s/%s/%s", reg.AppName(), SectionComSpec, bus.Name())
			virtual = reg.LookupPath(fullName)
			if virtual == nil {
				return nil, fmt.Errorf("bridge: CAN bus not found in configuration for index %d", index)
			}
		}
	}
	if virtual == nil {
		return nil, fmt.Errorf("bridge: virtual CAN bus configuration missing or incorrect for '%s' (index %d)", name, index)
	}

	virtual.DisableOutputScheduling()
	hw.SetFDMode(virtual.CANFDBaudRate() > 0)

	return &Binding{Hardware: hw, Virtual: virtual, Index: index}, nil
}
