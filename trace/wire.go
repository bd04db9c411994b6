package trace

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes a Trace to CBOR bytes.
func Marshal(t *Trace) ([]byte, error) {
	return cborEncMode.Marshal(t)
}

// Unmarshal deserializes a Trace from CBOR bytes.
func Unmarshal(data []byte) (*Trace, error) {
	var t Trace
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("trace: unmarshal: %w", err)
	}
	if t.Version != FormatVersion {
		return nil, fmt.Errorf("trace: unsupported version %d (want %d)", t.Version, FormatVersion)
	}
	return &t, nil
}

// WriteFile writes t to path as CBOR.
func WriteFile(path string, t *Trace) error {
	data, err := Marshal(t)
	if err != nil {
		return fmt.Errorf("trace: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}

// ReadFile loads a CBOR trace from path.
func ReadFile(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	return Unmarshal(data)
}
