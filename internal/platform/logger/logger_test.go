package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel(" warning "))
	assert.Equal(t, Error, ParseLevel("error"))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("nope"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("whatever"))
}

func TestJSONOutput_IncludesBaseAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "streetpaws", Output: &buf})

	l.With(map[string]any{"component": "uploads"}).Warn("cleanup failed", map[string]any{
		"file": "animal-1.png",
		"err":  errors.New("permission denied"),
		"":     "ignored",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))

	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "cleanup failed", entry["msg"])
	assert.Equal(t, "streetpaws", entry["app"])
	assert.Equal(t, "uploads", entry["component"])
	assert.Equal(t, "animal-1.png", entry["file"])
	assert.Equal(t, "permission denied", entry["err"])
	assert.NotContains(t, entry, "")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Format: FormatJSON, Output: &buf})

	l.Info("hidden", nil)
	l.Debug("hidden", nil)
	assert.Zero(t, buf.Len())

	l.Error("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}
