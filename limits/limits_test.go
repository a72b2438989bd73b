package limits

import (
	"errors"
	"testing"
)

func TestValidatePlaintext(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty", 0, false},
		{"small", 11, false},
		{"at limit", MaxPlaintextMessage, false},
		{"over limit", MaxPlaintextMessage + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlaintext(make([]byte, tt.size))
			if tt.wantErr {
				if !errors.Is(err, ErrMessageTooLarge) {
					t.Errorf("ValidatePlaintext(%d) = %v, want ErrMessageTooLarge", tt.size, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidatePlaintext(%d) unexpected error: %v", tt.size, err)
			}
		})
	}
}

// TestMaxPayloadBodyFitsPrefix verifies the largest body still fits the 32-bit
// length prefix used by the bitstream codec.
func TestMaxPayloadBodyFitsPrefix(t *testing.T) {
	if uint64(MaxPayloadBody) > uint64(^uint32(0)) {
		t.Errorf("MaxPayloadBody = %d overflows a 32-bit length prefix", MaxPayloadBody)
	}
}

func TestValidateIndexCount(t *testing.T) {
	if err := ValidateIndexCount(MaxIndexEntries); err != nil {
		t.Errorf("ValidateIndexCount(max) unexpected error: %v", err)
	}
	if err := ValidateIndexCount(MaxIndexEntries + 1); !errors.Is(err, ErrTooManyIndices) {
		t.Errorf("ValidateIndexCount(max+1) = %v, want ErrTooManyIndices", err)
	}
}
