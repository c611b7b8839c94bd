// Package conversation は会話エントリの順序付き保持と、
// セッションをまたいだ永続化・復元を担当します。
package conversation

import (
	"log/slog"
	"sync"

	"github.com/shouni/gemini-chat-kit/pkg/domain"
)

// Store は会話エントリの順序付きシーケンスです。
// 追記と ID キーのインプレース置換のみを許し、並べ替えや挿入は行いません。
// オーケストレーターがバックグラウンドから触るためミューテックスで保護します。
type Store struct {
	mu      sync.Mutex
	entries []domain.ConversationEntry
	storage Storage
}

// NewStore は永続スロットからの復元を試みつつ Store を初期化します。
// storage が nil の場合は永続化なしで動作します。
func NewStore(storage Storage) *Store {
	s := &Store{storage: storage}
	s.restore()
	return s
}

// Append はエントリを末尾に追加し、永続スロットへ書き出します。
func (s *Store) Append(entry domain.ConversationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	s.persistLocked()
}

// Replace は同じ ID のエントリをその位置のまま置き換えます。
// ボットエントリの状態遷移とユーザーエントリの編集のための唯一の変更手段です。
func (s *Store) Replace(id string, entry domain.ConversationEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i] = entry
			s.persistLocked()
			return true
		}
	}
	return false
}

// FindByID は ID でエントリを検索します。
func (s *Store) FindByID(id string) (domain.ConversationEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.ConversationEntry{}, false
}

// FindBotByUserMessageID はユーザーエントリに紐づくボットエントリを検索します。
// アクティブなボットエントリはユーザーエントリごとに高々 1 つです。
func (s *Store) FindBotByUserMessageID(userMessageID string) (domain.ConversationEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Role == domain.RoleBot && e.UserMessageID == userMessageID {
			return e, true
		}
	}
	return domain.ConversationEntry{}, false
}

// Entries は現在のエントリ列のコピーを返します。
func (s *Store) Entries() []domain.ConversationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ConversationEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len はエントリ数を返します。
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear は会話を空にし、永続スロットも破棄します。
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.persistLocked()
}

// persistLocked は呼び出し時点のエントリ列を永続スロットへ書き出します。
// 書き込み失敗は会話操作を妨げず、警告ログのみ残します。
func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	if err := persist(s.storage, s.entries); err != nil {
		slog.Warn("会話履歴の永続化に失敗しました", "error", err)
	}
}

// restore は永続スロットから会話を復元します。
// 壊れたデータは致命的エラーとせず、空の会話として開始します。
func (s *Store) restore() {
	if s.storage == nil {
		return
	}
	entries, err := load(s.storage)
	if err != nil {
		slog.Warn("永続化された会話履歴を読めなかったため破棄します", "error", err)
		if cerr := s.storage.Clear(); cerr != nil {
			slog.Warn("壊れた会話履歴の破棄に失敗しました", "error", cerr)
		}
		return
	}
	s.entries = entries
}
