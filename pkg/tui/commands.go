package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shouni/gemini-chat-kit/pkg/domain"
	"github.com/shouni/gemini-chat-kit/pkg/imgcodec"
	"github.com/shouni/gemini-chat-kit/pkg/orchestrator"
)

const commandTimeout = 5 * time.Minute

// submitCmd は新しい会話ターンを非同期で実行します。
func submitCmd(orch *orchestrator.Orchestrator, prompt string, files []imgcodec.FileInput, opts domain.GenerationOptions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		rejected, err := orch.Submit(ctx, prompt, files, opts)
		return generationDoneMsg{rejected: rejected, err: err}
	}
}

// retryCmd は指定ターンを同じペイロードで再実行します。
func retryCmd(orch *orchestrator.Orchestrator, userMessageID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		return generationDoneMsg{err: orch.Retry(ctx, userMessageID)}
	}
}

// editCmd は指定ターンのプロンプトを差し替えて再実行します。
func editCmd(orch *orchestrator.Orchestrator, userMessageID, newPrompt string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		return generationDoneMsg{err: orch.Edit(ctx, userMessageID, newPrompt)}
	}
}

// attachLocalCmd はローカルファイルを読み込んで添付候補にします。
func attachLocalCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return attachDoneMsg{name: path, err: err}
		}
		return attachDoneMsg{name: filepath.Base(path), data: data}
	}
}

// attachRemoteCmd は http(s):// または gs:// の URI から画像を取得して添付候補にします。
func attachRemoteCmd(fetcher *imgcodec.Fetcher, uri string) tea.Cmd {
	return func() tea.Msg {
		if fetcher == nil {
			return attachDoneMsg{name: uri, err: fmt.Errorf("リモート取得が無効になっています")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		data, err := fetcher.Fetch(ctx, uri)
		if err != nil {
			return attachDoneMsg{name: uri, err: err}
		}
		name := filepath.Base(uri)
		if name == "" || name == "." || name == "/" {
			name = "remote-image"
		}
		return attachDoneMsg{name: name, data: data}
	}
}

// isRemoteURI は添付指定がリモート取得を要するかどうかを判定します。
func isRemoteURI(target string) bool {
	return strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "gs://")
}

// exportCmd は会話ログをテキストとして書き出します。
func exportCmd(transcript, path string) tea.Cmd {
	return func() tea.Msg {
		if err := os.WriteFile(path, []byte(transcript), 0o600); err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// saveImageCmd は生成画像をデコードして指定パスへ書き出します。
func saveImageCmd(img domain.EncodedImage, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := imgcodec.DecodeForDisplay(img)
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// openImageCmd は生成画像を一時ファイルへ展開し、ビューア用の情報を返します。
func openImageCmd(img domain.EncodedImage, index int) tea.Cmd {
	return func() tea.Msg {
		data, err := imgcodec.DecodeForDisplay(img)
		if err != nil {
			return overlayOpenedMsg{index: index, err: err}
		}

		f, err := os.CreateTemp("", "gemini-chat-view-*"+extensionFor(img.MediaType))
		if err != nil {
			return overlayOpenedMsg{index: index, err: err}
		}
		defer f.Close()

		if _, err := f.Write(data); err != nil {
			os.Remove(f.Name())
			return overlayOpenedMsg{index: index, err: err}
		}
		return overlayOpenedMsg{
			index:     index,
			mediaType: img.MediaType,
			byteSize:  len(data),
			path:      f.Name(),
		}
	}
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
