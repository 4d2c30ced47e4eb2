package iojson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, map[string]int{"pageNumber": 3}))
	require.NoError(t, WriteLine(&buf, map[string]int{"pageNumber": 4}))
	assert.Equal(t, "{\"pageNumber\":3}\n{\"pageNumber\":4}\n", buf.String())
}

func TestWriteLineMarshalFailure(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLine(&buf, map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, []string{"a"}))
	assert.Equal(t, "[\n  \"a\"\n]\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	require.NoError(t, WriteWith(&out, &errOut, make(chan int)))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestMarshalError(t *testing.T) {
	var got Error
	require.NoError(t, json.Unmarshal([]byte(MarshalError("invalid import", map[string]any{"field": "pages[0].pageNumber"})), &got))
	assert.Equal(t, "invalid import", got.Message)
	assert.Equal(t, "pages[0].pageNumber", got.Data["field"])

	raw := MarshalError("broken", map[string]any{"ch": make(chan int)})
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, "broken", got.Message)
	assert.Contains(t, got.Data, "json_error")
}
