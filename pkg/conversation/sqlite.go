package conversation

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// storageKey は会話履歴を保持する固定キーです。
const storageKey = "conversation/history"

// SQLiteStorage は SQLite のキー・バリューテーブルを単一スロットとして使う
// 永続ストレージ実装です。
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage は指定パスのデータベースを開き、スロット用テーブルを用意します。
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("データベースを開けませんでした: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("スキーマの初期化に失敗しました: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Load は固定キーのスロット内容を返します。
func (s *SQLiteStorage) Load() ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, storageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Save は固定キーのスロット内容を置き換えます。
func (s *SQLiteStorage) Save(data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		storageKey, data,
	)
	return err
}

// Clear は固定キーのスロットを削除します。
func (s *SQLiteStorage) Clear() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, storageKey)
	return err
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
