package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z0rgoyok/go-appicon-kit/internal/config"
)

func TestResolveGenerateArgs(t *testing.T) {
	t.Run("3引数すべて指定", func(t *testing.T) {
		theme, name, style, err := resolveGenerateArgs([]string{"Weather App", "weather", "flat"})
		require.NoError(t, err)
		assert.Equal(t, "Weather App", theme)
		assert.Equal(t, "weather", name)
		assert.Equal(t, "flat", style)
	})

	t.Run("省略した引数はデフォルトになる", func(t *testing.T) {
		theme, name, style, err := resolveGenerateArgs([]string{"Music Player"})
		require.NoError(t, err)
		assert.Equal(t, "Music Player", theme)
		assert.Equal(t, config.DefaultOutputName, name)
		assert.Equal(t, config.DefaultStyle, style)
	})

	t.Run("空白だけのテーマは致命的エラー", func(t *testing.T) {
		_, _, _, err := resolveGenerateArgs([]string{"   "})
		assert.Error(t, err)
	})

	t.Run("空文字の出力名はデフォルトに落ちる", func(t *testing.T) {
		_, name, _, err := resolveGenerateArgs([]string{"x", "  ", "minimal"})
		require.NoError(t, err)
		assert.Equal(t, config.DefaultOutputName, name)
	})
}

func TestResolveImageModel(t *testing.T) {
	t.Run("フラグ未指定なら環境変数由来の値が勝つ", func(t *testing.T) {
		got := resolveImageModel("gemini-env-model", config.DefaultImageModel, false)
		assert.Equal(t, "gemini-env-model", got)
	})

	t.Run("フラグが明示指定されたらフラグが勝つ", func(t *testing.T) {
		got := resolveImageModel("gemini-env-model", "gemini-flag-model", true)
		assert.Equal(t, "gemini-flag-model", got)
	})

	t.Run("環境変数もフラグもなければデフォルトのまま", func(t *testing.T) {
		got := resolveImageModel(config.DefaultImageModel, config.DefaultImageModel, false)
		assert.Equal(t, config.DefaultImageModel, got)
	})

	t.Run("環境変数からロードした値と組み合わせて動く", func(t *testing.T) {
		t.Setenv("IMAGE_GEMINI_MODEL", "gemini-from-env")
		cfg := config.LoadConfig()
		assert.Equal(t, "gemini-from-env", resolveImageModel(cfg.GeminiImageModel, config.DefaultImageModel, false))
	})
}
