package canframe

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// MaxClassicPayload is the payload limit of a classical CAN frame.
// CAN-FD frames carry up to MaxFDPayload bytes.
const (
	MaxClassicPayload = 8
	MaxFDPayload      = 64
)

// IdentifierMask extracts the 29-bit identifier from a raw CAN ID word,
// stripping the EFF/RTR/ERR flag bits.
const IdentifierMask = 0x1FFFFFFF

// Frame is one CAN message: an identifier plus an opaque payload. The FD
// flag records the format the frame must be transmitted in on the physical
// bus; it is a property of the identifier, carried here so the frame is
// self-describing on the uplink wire.
type Frame struct {
	ID      uint32 `cbor:"1,keyasint" json:"id"`
	Data    []byte `cbor:"2,keyasint" json:"data"`
	FD      bool   `cbor:"3,keyasint,omitempty" json:"fd,omitempty"`
	Counter uint64 `cbor:"4,keyasint,omitempty" json:"counter,omitempty"`
}

// Validate checks identifier range and payload length.
func (f Frame) Validate() error {
	if f.ID > IdentifierMask {
		return fmt.Errorf("canframe: identifier 0x%X exceeds 29 bits", f.ID)
	}
	limit := MaxClassicPayload
	if f.FD {
		limit = MaxFDPayload
	}
	if len(f.Data) > limit {
		return fmt.Errorf("canframe: payload length %d exceeds %d byte limit (fd=%t)", len(f.Data), limit, f.FD)
	}
	return nil
}

// Marshal encodes the frame as CBOR for the uplink transport.
func (f Frame) Marshal() ([]byte, error) {
	b, err := cbor.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("canframe: encode frame 0x%X: %w", f.ID, err)
	}
	return b, nil
}

// Unmarshal decodes a CBOR-encoded frame received from the uplink.
func Unmarshal(data []byte) (Frame, error) {
	var f Frame
	if err := cbor.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("canframe: decode frame: %w", err)
	}
	return f, nil
}

func (f Frame) String() string {
	return fmt.Sprintf("ID=%X Len=%d Data=%X FD=%t", f.ID, len(f.Data), f.Data, f.FD)
}
