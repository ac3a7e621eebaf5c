package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Info().Str("slug", "hello").Msg("post served")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "post served", entry["message"])
	assert.Equal(t, "hello", entry["slug"])
	assert.Contains(t, entry, "time")
}

func TestComponentTagsEntries(t *testing.T) {
	l := Component("newsletter")
	var buf bytes.Buffer
	l = l.Output(&buf)
	l.Warn().Msg("x")
	assert.Contains(t, buf.String(), `"component":"newsletter"`)
}
