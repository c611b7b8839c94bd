package config

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-chat-kit/pkg/generator"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, generator.DefaultImageModel, cfg.ImageModel)
	assert.Equal(t, generator.DefaultTextModel, cfg.TextModel)
	assert.True(t, cfg.History.Enabled)
	assert.True(t, cfg.Cache.Enabled)
}

func TestConfig_Decode(t *testing.T) {
	t.Run("TOMLの値が既定値を上書きする", func(t *testing.T) {
		cfg := Default()
		_, err := toml.Decode(`
api_key = "test-key"
image_model = "custom-image-model"

[history]
enabled = false

[cache]
enabled = true
max_size_mb = 128
ttl_minutes = 10
`, &cfg)
		require.NoError(t, err)

		assert.Equal(t, "test-key", cfg.APIKey)
		assert.Equal(t, "custom-image-model", cfg.ImageModel)
		assert.Equal(t, generator.DefaultTextModel, cfg.TextModel, "未指定の値は既定のまま")
		assert.False(t, cfg.History.Enabled)
		assert.Equal(t, int64(128), cfg.Cache.MaxSizeMB)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("APIキーがなければエラーなのだ", func(t *testing.T) {
		cfg := Default()
		assert.Error(t, cfg.Validate())

		cfg.APIKey = "key"
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_HistoryPath(t *testing.T) {
	t.Run("明示したパスが優先される", func(t *testing.T) {
		cfg := Default()
		cfg.History.Path = "/tmp/custom.db"

		path, err := cfg.HistoryPath()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/custom.db", path)
	})

	t.Run("未指定なら既定ディレクトリ配下になる", func(t *testing.T) {
		cfg := Default()
		path, err := cfg.HistoryPath()
		require.NoError(t, err)
		assert.Contains(t, path, ".gemini-chat")
	})
}
