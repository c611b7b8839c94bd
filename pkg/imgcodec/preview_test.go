package imgcodec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	t.Run("プレビューは表示可能なローカルファイルを生成する", func(t *testing.T) {
		p, err := NewPreview(dummyImageData(t, "png"))
		require.NoError(t, err)
		t.Cleanup(p.Release)

		path := p.Path()
		require.NotEmpty(t, path)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("Releaseでファイルが削除されパスが無効になる", func(t *testing.T) {
		p, err := NewPreview(dummyImageData(t, "png"))
		require.NoError(t, err)
		path := p.Path()

		p.Release()

		assert.True(t, p.Released())
		assert.Empty(t, p.Path())
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "一時ファイルが残っていてはならない")
	})

	t.Run("Releaseは何度呼んでも安全", func(t *testing.T) {
		p, err := NewPreview(dummyImageData(t, "png"))
		require.NoError(t, err)

		p.Release()
		p.Release()
		p.Release()

		assert.True(t, p.Released())
	})

	t.Run("デコードできない形式でも原本でプレビューを作る", func(t *testing.T) {
		p, err := NewPreview(dummyWebpHeader())
		require.NoError(t, err)
		t.Cleanup(p.Release)

		assert.NotEmpty(t, p.Path())
	})
}

func TestCleanupStalePaths(t *testing.T) {
	t.Run("残存ファイルはベストエフォートで削除される", func(t *testing.T) {
		dir := t.TempDir()
		stale := filepath.Join(dir, "stale-preview.jpg")
		require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

		CleanupStalePaths([]string{stale, "", filepath.Join(dir, "does-not-exist.jpg")})

		_, err := os.Stat(stale)
		assert.True(t, os.IsNotExist(err))
	})
}
