package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainVariable  = "idsgo/variable/v1"
	DomainTensorSet = "idsgo/tensorset/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// VariableHash computes the content hash of one stored variable from its
// canonical description (name, dims, attributes) and its raw payload bytes.
func VariableHash(description map[string]any, payload []byte) (string, error) {
	canonical, err := MarshalCanonical(description)
	if err != nil {
		return "", fmt.Errorf("VariableHash: failed to marshal: %w", err)
	}
	data := make([]byte, 0, len(canonical)+1+len(payload))
	data = append(data, canonical...)
	data = append(data, 0x00)
	data = append(data, payload...)
	return hashWithDomain(DomainVariable, data), nil
}

// TensorSetHash combines the ordered variable hashes of a tensor set with
// its canonical header (dimensions and global attributes).
func TensorSetHash(header map[string]any, variableHashes []string) (string, error) {
	hashes := make([]any, len(variableHashes))
	for i, h := range variableHashes {
		hashes[i] = h
	}
	canonical, err := MarshalCanonical(map[string]any{
		"header":    header,
		"variables": hashes,
	})
	if err != nil {
		return "", fmt.Errorf("TensorSetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTensorSet, canonical), nil
}

// MustVariableHash is like VariableHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustVariableHash(description map[string]any, payload []byte) string {
	h, err := VariableHash(description, payload)
	if err != nil {
		panic(err)
	}
	return h
}
