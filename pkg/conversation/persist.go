package conversation

import (
	"encoding/json"
	"fmt"

	"github.com/shouni/gemini-chat-kit/pkg/domain"
	"github.com/shouni/gemini-chat-kit/pkg/imgcodec"
)

// Storage は会話履歴を保持する単一の文字列キー付きスロットです。
type Storage interface {
	// Load はスロットの内容を返します。スロットが空の場合は ok=false を返します。
	Load() (data []byte, ok bool, err error)
	// Save はスロットの内容を置き換えます。
	Save(data []byte) error
	// Clear はスロットを完全に削除します。
	Clear() error
}

// persist はローディング中のエントリを除外した列を直列化して保存します。
// 除外後に何も残らない場合は空列を保存せずスロット自体を削除します。
// クラッシュや再読み込みでスピナーが固まったまま復活することを防ぎます。
func persist(storage Storage, entries []domain.ConversationEntry) error {
	filtered := make([]domain.ConversationEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsLoading {
			continue
		}
		filtered = append(filtered, e)
	}

	if len(filtered) == 0 {
		return storage.Clear()
	}

	data, err := json.Marshal(filtered)
	if err != nil {
		return fmt.Errorf("会話履歴の直列化に失敗しました: %w", err)
	}
	return storage.Save(data)
}

// load はスロットから会話を復元します。
// 復元したユーザーエントリのローカルプレビュー参照は再読み込み後の有効性を
// 信頼できないため、ベストエフォートで掃除したうえでエントリから取り除きます。
// エントリ自体は破棄しません。
func load(storage Storage) ([]domain.ConversationEntry, error) {
	data, ok, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("会話履歴の読み込みに失敗しました: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var entries []domain.ConversationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("会話履歴の解析に失敗しました: %w", err)
	}

	for i := range entries {
		if entries[i].Role != domain.RoleUser {
			continue
		}
		if len(entries[i].ImagePreviewPaths) > 0 {
			imgcodec.CleanupStalePaths(entries[i].ImagePreviewPaths)
			entries[i].ImagePreviewPaths = nil
		}
	}
	return entries, nil
}
