package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"marketplace-api/config"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := log.New()
	require.NoError(t, configure(l, config.LogConfig{Level: "debug", Format: "json"}, &buf))

	l.WithField("job_id", "abc").Debug("job created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "job created", entry["msg"])
	assert.Equal(t, "abc", entry["job_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := log.New()
	require.NoError(t, configure(l, config.LogConfig{Level: "warn", Format: "text"}, &buf))

	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_Invalid(t *testing.T) {
	assert.Error(t, configure(log.New(), config.LogConfig{Level: "loud", Format: "text"}, &bytes.Buffer{}))
	assert.Error(t, configure(log.New(), config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{}))
}
