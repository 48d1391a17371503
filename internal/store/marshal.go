package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// marshalRom converts a read-only memory image to JSON TEXT for storage.
func marshalRom(rom []float64) (string, error) {
	if rom == nil {
		rom = []float64{}
	}
	data, err := json.Marshal(rom)
	if err != nil {
		return "", fmt.Errorf("marshal rom: %w", err)
	}
	return string(data), nil
}

// unmarshalRom parses a stored JSON TEXT rom image.
func unmarshalRom(data string) ([]float64, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var rom []float64
	if err := json.Unmarshal([]byte(data), &rom); err != nil {
		return nil, fmt.Errorf("unmarshal rom: %w", err)
	}
	return rom, nil
}

// ContentHash computes the artifact's identity: sha256 over the callback
// name, the rendered CFG and the rom image. Two builds of unchanged sources
// hash identically regardless of build id or timestamp.
func ContentHash(callback, cfgText string, rom []float64) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", callback, cfgText)
	for _, v := range rom {
		fmt.Fprintf(h, "%g,", v)
	}
	return hex.EncodeToString(h.Sum(nil))
}
