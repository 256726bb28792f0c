package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildJSON(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, "warn", "")

	log.Info("dropped")
	log.Warn("bazi calendar data gap", "detail", "no row")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "bazi", entry["service"])
	require.Equal(t, "no row", entry["detail"])
}

func TestBuildText(t *testing.T) {
	var buf bytes.Buffer
	build(&buf, "debug", "TEXT").Debug("hello")
	require.Contains(t, buf.String(), "service=bazi")
	require.Contains(t, buf.String(), "msg=hello")
}
