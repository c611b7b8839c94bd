// Package cache は取得済み画像バイト列のインプロセスキャッシュを提供します。
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// ByteCache は ristretto を利用した URL -> 画像バイト列のキャッシュです。
// コストは値のバイト数で計上します。
type ByteCache struct {
	c *ristretto.Cache[string, []byte]
}

// NewByteCache は最大合計サイズ maxCostBytes のキャッシュを生成します。
func NewByteCache(maxCostBytes int64) (*ByteCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ByteCache{c: c}, nil
}

// Get はキーに対応する値を取得します。
func (b *ByteCache) Get(key string) ([]byte, bool) {
	return b.c.Get(key)
}

// Set はキーと値を指定 TTL で保存します。
func (b *ByteCache) Set(key string, value []byte, ttl time.Duration) {
	b.c.SetWithTTL(key, value, int64(len(value)), ttl)
}

// Close はキャッシュを停止してリソースを解放します。
func (b *ByteCache) Close() {
	b.c.Close()
}
