package imgcodec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFetcher(t *testing.T) {
	t.Run("必須依存が欠けている場合はエラーを返す", func(t *testing.T) {
		_, err := NewFetcher(nil, &mockReader{}, nil, time.Hour)
		assert.Error(t, err)

		_, err = NewFetcher(&mockHTTPClient{}, nil, nil, time.Hour)
		assert.Error(t, err)
	})

	t.Run("キャッシュはnilを許容する", func(t *testing.T) {
		_, err := NewFetcher(&mockHTTPClient{}, &mockReader{}, nil, time.Hour)
		assert.NoError(t, err)
	})
}

func TestFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("gsURIはreader経由で取得される", func(t *testing.T) {
		httpMock := &mockHTTPClient{}
		f, err := NewFetcher(httpMock, &mockReader{data: []byte("gcs-bytes")}, nil, time.Hour)
		require.NoError(t, err)

		data, err := f.Fetch(ctx, "gs://bucket/image.png")

		require.NoError(t, err)
		assert.Equal(t, []byte("gcs-bytes"), data)
		assert.Zero(t, httpMock.called, "gs:// で HTTP クライアントを使ってはならない")
	})

	t.Run("公開IPへのhttpsはHTTPクライアント経由で取得されキャッシュされる", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: []byte("http-bytes")}
		cache := newMockByteCache()
		f, err := NewFetcher(httpMock, &mockReader{}, cache, time.Hour)
		require.NoError(t, err)

		const url = "https://93.184.216.34/image.png"
		data, err := f.Fetch(ctx, url)

		require.NoError(t, err)
		assert.Equal(t, []byte("http-bytes"), data)

		cached, ok := cache.Get(url)
		assert.True(t, ok)
		assert.Equal(t, data, cached)
	})

	t.Run("キャッシュヒット時は再取得しない", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: []byte("fresh")}
		cache := newMockByteCache()
		cache.Set("https://example.com/cached.png", []byte("cached-bytes"), time.Hour)

		f, err := NewFetcher(httpMock, &mockReader{}, cache, time.Hour)
		require.NoError(t, err)

		data, err := f.Fetch(ctx, "https://example.com/cached.png")

		require.NoError(t, err)
		assert.Equal(t, []byte("cached-bytes"), data)
		assert.Zero(t, httpMock.called)
	})

	t.Run("プライベートIPはSSRF対策でブロックされる", func(t *testing.T) {
		f, err := NewFetcher(&mockHTTPClient{}, &mockReader{}, nil, time.Hour)
		require.NoError(t, err)

		_, err = f.Fetch(ctx, "http://127.0.0.1/secret.png")
		assert.Error(t, err)

		_, err = f.Fetch(ctx, "http://192.168.1.10/internal.png")
		assert.Error(t, err)
	})

	t.Run("不許可スキームはブロックされる", func(t *testing.T) {
		f, err := NewFetcher(&mockHTTPClient{}, &mockReader{}, nil, time.Hour)
		require.NoError(t, err)

		_, err = f.Fetch(ctx, "file:///etc/passwd")
		assert.Error(t, err)
	})
}
