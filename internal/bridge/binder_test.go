package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simtools/canbridge/internal/virtualbus"
)

func TestBindByName(t *testing.T) {
	reg := NewRegistry("Rig")
	hw := &stubHardware{}
	reg.AddHardware(hw)

	named := virtualbus.NewSimBus("FrontCan", 7, 2000000)
	reg.AddVirtual(SectionCanCommunication, named)
	// A decoy whose index matches the bridge's configured index; it must
	// NOT win when name resolution succeeds.
	decoy := virtualbus.NewSimBus("BodyCan", 1, 0)
	reg.AddVirtual(SectionComSpec, decoy)

	binding, err := Bind(reg, "FrontCan", 1, discardLogger())
	require.NoError(t, err)
	assert.Same(t, named, binding.Virtual.(*virtualbus.SimBus))
	assert.Equal(t, 1, binding.Index)

	// FD baud rate propagates into the hardware endpoint's mode, and
	// the bound bus stops scheduling its own output.
	assert.True(t, hw.FDMode())
	assert.False(t, named.OutputScheduling())
	assert.True(t, decoy.OutputScheduling())
}

func TestBindIndexFallback(t *testing.T) {
	reg := NewRegistry("Rig")
	reg.AddHardware(&stubHardware{})

	other := virtualbus.NewSimBus("BodyCan", 4, 0)
	reg.AddVirtual(SectionComSpec, other)

	binding, err := Bind(reg, "FrontCan", 4, discardLogger())
	require.NoError(t, err)
	assert.Same(t, other, binding.Virtual.(*virtualbus.SimBus))
	assert.False(t, binding.Hardware.FDMode())
}

func TestBindIndexFallbackPathMiss(t *testing.T) {
	reg := NewRegistry("Rig")
	reg.AddHardware(&stubHardware{})

	// Index matches, but the bus is only registered under
	// CanCommunication, so the ComSpec path lookup misses.
	stray := virtualbus.NewSimBus("BodyCan", 4, 0)
	reg.AddVirtual(SectionCanCommunication, stray)

	_, err := Bind(reg, "FrontCan", 4, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 4")
}

func TestBindNoMatchAtAll(t *testing.T) {
	reg := NewRegistry("Rig")
	reg.AddHardware(&stubHardware{})
	reg.AddVirtual(SectionComSpec, virtualbus.NewSimBus("BodyCan", 9, 0))

	_, err := Bind(reg, "FrontCan", 4, discardLogger())
	assert.Error(t, err)
}

func TestBindNoHardware(t *testing.T) {
	reg := NewRegistry("Rig")
	reg.AddVirtual(SectionCanCommunication, virtualbus.NewSimBus("FrontCan", 1, 0))

	_, err := Bind(reg, "FrontCan", 1, discardLogger())
	assert.Error(t, err)
}

func TestBindNoVirtualBuses(t *testing.T) {
	reg := NewRegistry("Rig")
	reg.AddHardware(&stubHardware{})

	_, err := Bind(reg, "FrontCan", 1, discardLogger())
	assert.Error(t, err)
}

func TestBindMultipleHardwareUsesFirst(t *testing.T) {
	reg := NewRegistry("Rig")
	first := &stubHardware{}
	reg.AddHardware(first)
	reg.AddHardware(&stubHardware{})
	reg.AddVirtual(SectionCanCommunication, virtualbus.NewSimBus("FrontCan", 1, 0))

	binding, err := Bind(reg, "FrontCan", 1, discardLogger())
	require.NoError(t, err)
	assert.Same(t, first, binding.Hardware.(*stubHardware))
}
