// gemini-chat は Gemini の画像生成・画像解析を行う対話型チャット端末です。
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"google.golang.org/genai"

	"github.com/shouni/gemini-chat-kit/pkg/cache"
	"github.com/shouni/gemini-chat-kit/pkg/config"
	"github.com/shouni/gemini-chat-kit/pkg/conversation"
	"github.com/shouni/gemini-chat-kit/pkg/generator"
	"github.com/shouni/gemini-chat-kit/pkg/imgcodec"
	"github.com/shouni/gemini-chat-kit/pkg/orchestrator"
	"github.com/shouni/gemini-chat-kit/pkg/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "エラー:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("設定ディレクトリを作成できませんでした: %w", err)
	}

	// TUI が標準出力を専有するため、ログはファイルへ逃がします。
	logFile, err := os.OpenFile(filepath.Join(dir, "chat.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("ログファイルを開けませんでした: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	ctx := context.Background()
	aiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}

	model, err := generator.NewGenaiModel(aiClient)
	if err != nil {
		return err
	}
	genClient, err := generator.NewClient(model, cfg.ImageModel, cfg.TextModel)
	if err != nil {
		return err
	}

	var storage conversation.Storage
	if cfg.History.Enabled {
		path, err := cfg.HistoryPath()
		if err != nil {
			return err
		}
		sqlite, err := conversation.NewSQLiteStorage(path)
		if err != nil {
			return fmt.Errorf("履歴データベースを開けませんでした: %w", err)
		}
		defer sqlite.Close()
		storage = sqlite
	}
	store := conversation.NewStore(storage)

	orch, err := orchestrator.New(store, genClient)
	if err != nil {
		return err
	}

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}

	m, err := tui.New(orch, store, fetcher)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("画面の実行中にエラーが発生しました: %w", err)
	}
	return nil
}

// buildFetcher はリモート添付用の Fetcher を組み立てます。
func buildFetcher(cfg config.Config) (*imgcodec.Fetcher, error) {
	var byteCache imgcodec.ByteCacher
	if cfg.Cache.Enabled {
		c, err := cache.NewByteCache(cfg.Cache.MaxSizeMB << 20)
		if err != nil {
			return nil, fmt.Errorf("キャッシュの初期化に失敗しました: %w", err)
		}
		byteCache = c
	}

	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	return imgcodec.NewFetcher(newHTTPFetcher(), noGCSReader{}, byteCache, ttl)
}
