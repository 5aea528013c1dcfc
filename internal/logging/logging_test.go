package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, false, "json")
	require.NoError(t, err)

	logger.WithField("layer", "structuring").Info("layer complete")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "structuring", line["layer"])
	assert.Equal(t, "layer complete", line["msg"])
}

func TestNewWithOutput_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, false, "text")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger, err = NewWithOutput(&buf, true, "")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewWithOutput_UnknownFormat(t *testing.T) {
	_, err := NewWithOutput(&bytes.Buffer{}, false, "xml")
	assert.Error(t, err)
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))

	logger := Discard()
	assert.Same(t, logger, OrDiscard(logger))
}
