package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchema(t *testing.T) {
	schema, err := JSONSchema()
	require.NoError(t, err)
	require.NotEmpty(t, schema)

	var decoded map[string]interface{}
	err = json.Unmarshal(schema, &decoded)
	require.NoError(t, err)

	assert.Contains(t, decoded, "$schema")
	assert.Contains(t, decoded, "$defs")
}
