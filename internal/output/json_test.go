package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_FormatRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(nil).Format(&buf, testNodes()))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	// embedded node fields are flattened next to the endpoint
	assert.Equal(t, "prod", decoded[0]["endpoint"])
	assert.Equal(t, "mgr-1", decoded[0]["hostname"])
	assert.Equal(t, 7.78, decoded[0]["memory_gb"])
	assert.Contains(t, decoded[0], "manager_info")
	assert.NotContains(t, decoded[1], "manager_info")
}

func TestJSONFormatter_Indentation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(nil).Format(&buf, map[string]int{"a": 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestJSONFormatter_FormatEndpoints(t *testing.T) {
	outcomes := []Outcome{
		{Endpoint: "prod", Data: []string{"web"}, Duration: time.Second},
		{Endpoint: "staging", Error: errors.New("connection refused"), Duration: 2 * time.Second},
	}

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(nil).FormatEndpoints(&buf, outcomes))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "success", decoded[0]["status"])
	assert.Equal(t, "1s", decoded[0]["duration"])
	assert.Equal(t, []interface{}{"web"}, decoded[0]["data"])
	assert.NotContains(t, decoded[0], "error")

	assert.Equal(t, "failed", decoded[1]["status"])
	assert.Equal(t, "connection refused", decoded[1]["error"])
	assert.NotContains(t, decoded[1], "data")
	assert.False(t, strings.Contains(buf.String(), "\t"))
}
