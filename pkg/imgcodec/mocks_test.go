package imgcodec

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// --- Mocks ---

type mockHTTPClient struct {
	httpkit.ClientInterface
	data    []byte
	err     error
	called  int
	lastURL string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.called++
	m.lastURL = url
	return m.data, m.err
}

type mockReader struct {
	data []byte
	err  error
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

type mockByteCache struct {
	data map[string][]byte
}

func newMockByteCache() *mockByteCache {
	return &mockByteCache{data: make(map[string][]byte)}
}

func (m *mockByteCache) Get(key string) ([]byte, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockByteCache) Set(key string, value []byte, d time.Duration) {
	m.data[key] = value
}
