package virtualbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimBusCallback(t *testing.T) {
	bus := NewSimBus("FrontCan", 1, 2000000)
	assert.Equal(t, "FrontCan", bus.Name())
	assert.Equal(t, 1, bus.Index())
	assert.Equal(t, 2000000, bus.CANFDBaudRate())

	// Transmit without an observer must not panic.
	bus.Transmit(0x100, []byte{1})

	var gotID uint32
	var gotPayload []byte
	bus.RegisterFrameCallback(func(id uint32, payload []byte) {
		gotID = id
		gotPayload = payload
	})

	bus.Transmit(0x1A5, []byte{0xDE, 0xAD})
	assert.Equal(t, uint32(0x1A5), gotID)
	assert.Equal(t, []byte{0xDE, 0xAD}, gotPayload)
}

func TestSimBusOutputScheduling(t *testing.T) {
	bus := NewSimBus("BodyCan", 2, 0)
	assert.True(t, bus.OutputScheduling())
	bus.DisableOutputScheduling()
	assert.False(t, bus.OutputScheduling())
}

func TestSimBusFanOut(t *testing.T) {
	bus := NewSimBus("FrontCan", 1, 0)
	sub := bus.Subscribe(4)

	require.NoError(t, bus.SendFrame(0x400, []byte{7, 7}))

	select {
	case frame := <-sub:
		assert.Equal(t, uint32(0x400), frame.ID)
		assert.Equal(t, []byte{7, 7}, frame.Data)
	default:
		t.Fatal("subscriber did not receive the frame")
	}

	// Full subscriber channels drop frames instead of blocking the bus.
	tiny := bus.Subscribe(1)
	require.NoError(t, bus.SendFrame(0x401, nil))
	require.NoError(t, bus.SendFrame(0x402, nil))
	assert.Len(t, tiny, 1)
}

func TestPowerFlag(t *testing.T) {
	p := NewPowerFlag(false)
	assert.False(t, p.Powered())
	p.Set(true)
	assert.True(t, p.Powered())
	p.Set(false)
	assert.False(t, p.Powered())
}
