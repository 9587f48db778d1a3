// Package virtualbus provides the software-modeled CAN bus endpoints the
// bridge pairs with: an in-memory bus for in-process simulation and tests,
// and an MQTT-backed uplink to a remote simulation host.
package virtualbus

// FrameCallback observes one virtual-side transmission attempt. It is
// invoked synchronously at the moment the virtual bus tries to output a
// frame.
type FrameCallback func(id uint32, payload []byte)

// Bus is the virtual-side contract consumed by the bridge.
type Bus interface {
	// Name is the bus name used for path lookup in the configuration
	// tree.
	Name() string

	// Index disambiguates buses when names do not match.
	Index() int

	// CANFDBaudRate returns the configured CAN-FD data baud rate.
	// Zero means the bus runs classic CAN only.
	CANFDBaudRate() int

	// RegisterFrameCallback installs fn as the observer of every
	// transmission attempt made by this bus. A single observer is
	// supported; registering again replaces it.
	RegisterFrameCallback(fn FrameCallback)

	// DisableOutputScheduling stops the bus from driving its own
	// output timing. After the call, frames leave the bus only
	// through the registered callback.
	DisableOutputScheduling()

	// SendFrame inputs a frame into the virtual bus, as if it had
	// been observed on the wire.
	SendFrame(id uint32, payload []byte) error
}
