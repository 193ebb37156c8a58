package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")

	in := map[string]interface{}{"total_sales": 100.5, "dimension": "region"}
	require.NoError(t, WriteJSON(path, in))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &out))
	assert.Equal(t, "region", out["dimension"])
	assert.InDelta(t, 100.5, out["total_sales"].(float64), 1e-9)
}

func TestWriteJSON_UnmarshalableValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	err := WriteJSON(path, map[string]interface{}{"ch": make(chan int)})
	assert.Error(t, err)
}
