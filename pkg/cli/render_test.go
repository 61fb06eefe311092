package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *QueryResult {
	return &QueryResult{
		Columns:  []string{"gender", "n"},
		Rows:     [][]interface{}{{"FEMALE", float64(812)}, {nil, float64(3)}},
		RowCount: 2,
	}
}

func TestRenderResult_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, sampleResult(), "table"))

	out := buf.String()
	assert.Contains(t, out, "gender")
	assert.Contains(t, out, "FEMALE")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")
}

func TestRenderResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, sampleResult(), "json"))

	var decoded QueryResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.RowCount)
}

func TestRenderResult_Note(t *testing.T) {
	r := sampleResult()
	r.Note = "small result sets may have limited statistical significance"
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, r, "table"))
	assert.Contains(t, buf.String(), "statistical significance")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderJSON(&buf, json.RawMessage(`{"b":2,"a":1}`)))
	assert.Contains(t, buf.String(), "\"a\": 1")
}
