package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableHashDeterminism(t *testing.T) {
	desc := map[string]any{"name": "time", "dims": []string{"time"}}
	payload := []byte{1, 2, 3}

	h1, err := VariableHash(desc, payload)
	require.NoError(t, err)
	h2, err := VariableHash(map[string]any{"dims": []string{"time"}, "name": "time"}, payload)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "key order must not matter")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestVariableHashChangesWithInput(t *testing.T) {
	desc := map[string]any{"name": "time"}

	base := MustVariableHash(desc, []byte{1})
	assert.NotEqual(t, base, MustVariableHash(desc, []byte{2}), "payload must matter")
	assert.NotEqual(t, base, MustVariableHash(map[string]any{"name": "t"}, []byte{1}), "description must matter")
}

func TestHashDomainSeparation(t *testing.T) {
	data := []byte("same")
	assert.NotEqual(t,
		hashWithDomain(DomainVariable, data),
		hashWithDomain(DomainTensorSet, data),
	)
}

func TestTensorSetHash(t *testing.T) {
	header := map[string]any{"dimensions": map[string]any{"time": 3}}

	h1, err := TensorSetHash(header, []string{"a", "b"})
	require.NoError(t, err)
	h2, err := TensorSetHash(header, []string{"b", "a"})
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "variable order is part of the identity")
}
