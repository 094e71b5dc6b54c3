package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
}

func TestConfigNormalize_AddsV1Suffix(t *testing.T) {
	cfg := NewConfig(WithEmbeddingHost("http://localhost:9100"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:9100/v1", cfg.EmbeddingHost)

	cfg = NewConfig(WithEmbeddingHost("http://localhost:9100/"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:9100/v1", cfg.EmbeddingHost)

	cfg = NewConfig(WithEmbeddingHost("http://localhost:9100/v1"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:9100/v1", cfg.EmbeddingHost)
}

func TestConfigValidate_MissingFields(t *testing.T) {
	cfg := NewConfig(WithEmbeddingModel(""))
	assert.Error(t, cfg.Validate())

	cfg = NewConfig(WithToken(""))
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.EmbeddingHost = ""
	assert.Error(t, cfg.Validate())
}
