// Package config は ~/.gemini-chat/config.toml と環境変数から設定を読み込みます。
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/shouni/gemini-chat-kit/pkg/generator"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	// APIKey は Gemini API キーです。環境変数 GEMINI_API_KEY が優先されます。
	APIKey string `toml:"api_key"`
	// ImageModel は画像生成に使うモデル名です。
	ImageModel string `toml:"image_model"`
	// TextModel は画像解析（テキスト応答）に使うモデル名です。
	TextModel string `toml:"text_model"`

	History HistoryConfig `toml:"history"`
	Cache   CacheConfig   `toml:"cache"`
}

// HistoryConfig は会話履歴の永続化設定です。
type HistoryConfig struct {
	// Enabled が偽の場合、履歴はプロセス内にのみ保持されます。
	Enabled bool `toml:"enabled"`
	// Path は履歴データベースのファイルパスです。空なら既定の場所を使います。
	Path string `toml:"path"`
}

// CacheConfig はリモート画像取得キャッシュの設定です。
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// MaxSizeMB はキャッシュの上限サイズです。
	MaxSizeMB int64 `toml:"max_size_mb"`
	// TTLMinutes はエントリの有効期間（分）です。
	TTLMinutes int `toml:"ttl_minutes"`
}

// Default は設定ファイルがない場合の既定値を返します。
func Default() Config {
	return Config{
		ImageModel: generator.DefaultImageModel,
		TextModel:  generator.DefaultTextModel,
		History:    HistoryConfig{Enabled: true},
		Cache:      CacheConfig{Enabled: true, MaxSizeMB: 64, TTLMinutes: 30},
	}
}

// Dir は設定・履歴ファイルを置くディレクトリを返します。
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("ホームディレクトリを特定できませんでした: %w", err)
	}
	return filepath.Join(home, ".gemini-chat"), nil
}

// Load は設定ファイルと環境変数から設定を組み立てます。
// ファイルが存在しない場合は既定値のまま返します。
func Load() (Config, error) {
	cfg := Default()

	dir, err := Dir()
	if err != nil {
		return cfg, err
	}

	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("設定ファイルの読み込みに失敗しました (%s): %w", path, err)
		}
	}

	// 環境変数はファイルより優先
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	}

	if cfg.ImageModel == "" {
		cfg.ImageModel = generator.DefaultImageModel
	}
	if cfg.TextModel == "" {
		cfg.TextModel = generator.DefaultTextModel
	}
	return cfg, nil
}

// HistoryPath は履歴データベースの実パスを返します。
func (c Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Validate は起動に必要な値が揃っているかを検証します。
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("APIキーが設定されていません（環境変数 GEMINI_API_KEY または config.toml の api_key）")
	}
	return nil
}
