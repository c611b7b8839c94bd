package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// httpFetcher は添付画像の HTTP 取得クライアントです。
// httpkit.Client を埋め込んで httpkit.ClientInterface を満たしつつ、
// FetchBytes は独自実装（サイズ上限付き）で上書きします。
type httpFetcher struct {
	*httpkit.Client
	client *http.Client
}

func newHTTPFetcher() *httpFetcher {
	return &httpFetcher{
		Client: httpkit.New(60 * time.Second),
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// FetchBytes は URL からレスポンスボディを取得します。
func (f *httpFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの構築に失敗しました: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("取得に失敗しました: ステータス %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
}

// 取得サイズの上限。検証用に 1 バイト余分に読んで上限超過を検出可能にします。
const maxFetchBytes = 10 << 20

// noGCSReader は GCS 資格情報が設定されていない環境向けの InputReader 実装です。
// gs:// の添付は明示的なエラーになります。
type noGCSReader struct{}

func (noGCSReader) Open(_ context.Context, uri string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("gs:// の取得にはGCSの設定が必要です: %s", uri)
}

func (noGCSReader) List(_ context.Context, uri string, _ func(string) error) error {
	return fmt.Errorf("gs:// の一覧にはGCSの設定が必要です: %s", uri)
}
