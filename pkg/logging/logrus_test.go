package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fields "github.com/goliatone/go-fields"
)

func newBufferLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: true})
	return logger, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogrusLevelsAndFields(t *testing.T) {
	logger, buf := newBufferLogger()
	adapter := NewLogrus(logger)

	adapter.Log(fields.LogEvent{Level: fields.LogLevelDebug, Subject: "post_1", Field: "blocks", Key: "blocks", Message: "unknown_variant"})
	adapter.Log(fields.LogEvent{Level: fields.LogLevelWarn, Field: "title", Message: "rule failed", Err: errors.New("bad rule")})
	adapter.Log(fields.LogEvent{Level: fields.LogLevelError, Key: "footer", Message: "value source read failed"})

	entries := decodeLines(t, buf)
	require.Len(t, entries, 3)

	assert.Equal(t, "debug", entries[0]["level"])
	assert.Equal(t, "post_1", entries[0]["subject"])
	assert.Equal(t, "blocks", entries[0]["field"])
	assert.Equal(t, "fields", entries[0]["component"])

	assert.Equal(t, "warning", entries[1]["level"])
	assert.Equal(t, "bad rule", entries[1]["error"])
	assert.NotContains(t, entries[1], "subject")

	assert.Equal(t, "error", entries[2]["level"])
	assert.Equal(t, "footer", entries[2]["key"])
}

func TestLogrusWithResolver(t *testing.T) {
	logger, buf := newBufferLogger()
	roots := []*fields.FieldSchema{{Name: "ghost", Kind: fields.KindReference, References: []string{"group_gone"}}}
	source := fields.SourceFunc(func(context.Context, string, string) (any, bool, error) { return nil, false, nil })

	_, err := fields.New(source, fields.WithLogger(NewLogrus(logger))).ResolveAll(context.Background(), "post_1", roots)
	require.NoError(t, err)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, `missing_reference "group_gone"`, entries[0]["msg"])
}

func TestNewLogrusDefaultsToStandardLogger(t *testing.T) {
	adapter := NewLogrus(nil)
	assert.Equal(t, logrus.StandardLogger(), adapter.logger)
}
