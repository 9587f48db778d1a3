package canframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		frame Frame
		ok    bool
	}{
		"classic within limit": {Frame{ID: 0x123, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}, true},
		"classic over limit":   {Frame{ID: 0x123, Data: make([]byte, 9)}, false},
		"fd over classic size": {Frame{ID: 0x123, Data: make([]byte, 48), FD: true}, true},
		"fd over fd limit":     {Frame{ID: 0x123, Data: make([]byte, 65), FD: true}, false},
		"identifier too wide":  {Frame{ID: 0x20000000}, false},
		"extended identifier":  {Frame{ID: 0x18DAF110, Data: []byte{0xAA}}, true},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.frame.Validate()
			if test.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestWireCodec(t *testing.T) {
	in := Frame{ID: 0x1A5, Data: []byte{0xDE, 0xAD, 0xBE, 0xEF}, FD: true, Counter: 42}
	b, err := in.Marshal()
	require.NoError(t, err)

	out, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = Unmarshal([]byte{0xFF, 0x00})
	assert.Error(t, err)
}
