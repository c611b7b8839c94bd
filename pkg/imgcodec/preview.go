package imgcodec

import (
	"fmt"
	"os"
	"sync"

	"github.com/shouni/gemini-chat-kit/pkg/imgutil"
)

const (
	previewMaxDim  = 512
	previewQuality = 80
)

// Preview はローカル表示用のプレビューハンドルです。
// 一時ファイルという有限のクライアント側リソースを占有するため、
// 対応するエントリの削除・置換時に Release を必ず 1 回だけ呼ぶ必要があります。
type Preview struct {
	path     string
	once     sync.Once
	mu       sync.Mutex
	released bool
}

// NewPreview は画像バイト列からサムネイルの一時ファイルを生成し、
// 表示ソースとして利用できるハンドルを返します。
// WEBP などデコードできない形式は原本をそのまま書き出します。
func NewPreview(data []byte) (*Preview, error) {
	body, err := imgutil.Thumbnail(data, previewMaxDim, previewQuality)
	if err != nil {
		body = data
	}

	f, err := os.CreateTemp("", "gemini-chat-preview-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("プレビューファイルの作成に失敗しました: %w", err)
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("プレビューファイルの書き込みに失敗しました: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("プレビューファイルのクローズに失敗しました: %w", err)
	}

	return &Preview{path: f.Name()}, nil
}

// Path はプレビューの表示ソース（ローカルファイルパス）を返します。
// 解放済みのハンドルに対しては空文字を返します。
func (p *Preview) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ""
	}
	return p.path
}

// Release はプレビューリソースを解放します。複数回呼んでも 1 回だけ実行されます。
func (p *Preview) Release() {
	p.once.Do(func() {
		p.mu.Lock()
		p.released = true
		p.mu.Unlock()
		os.Remove(p.path)
	})
}

// Released は解放済みかどうかを返します（リークテスト用）。
func (p *Preview) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

// CleanupStalePaths はセッション復元時に、以前のセッションが残した
// プレビューパスをベストエフォートで削除します。
// 復元後のエントリからこれらの参照を信頼してはなりません。
func CleanupStalePaths(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		os.Remove(p)
	}
}
