package imgcodec

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// ByteCacher は取得済みバイト列のキャッシュ操作を抽象化するインターフェースです。
type ByteCacher interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, d time.Duration)
}

// Fetcher は URL 指定の添付画像を取得するコンポーネントです。
// http(s):// は httpkit、gs:// は remoteio 経由で取得し、結果をキャッシュします。
type Fetcher struct {
	httpClient httpkit.ClientInterface
	reader     remoteio.InputReader
	cache      ByteCacher
	expiration time.Duration
}

// NewFetcher は依存関係を注入して Fetcher を初期化します。
func NewFetcher(httpClient httpkit.ClientInterface, reader remoteio.InputReader, cache ByteCacher, cacheTTL time.Duration) (*Fetcher, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	// cache は nil を許容（キャッシュなし動作）

	return &Fetcher{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		expiration: cacheTTL,
	}, nil
}

// Fetch は URL から画像バイト列を取得します。検証は呼び出し側（AcceptBatch 等）で行います。
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(rawURL); ok {
			return data, nil
		}
	}

	data, err := f.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.Set(rawURL, data, f.expiration)
	}
	return data, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "gs://") {
		rc, err := f.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	if safe, err := isSafeURL(rawURL); err != nil || !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	return f.httpClient.FetchBytes(ctx, rawURL)
}

// isSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func isSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP

	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
