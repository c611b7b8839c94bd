package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shouni/gemini-chat-kit/pkg/domain"
	"github.com/shouni/gemini-chat-kit/pkg/utils"
)

var (
	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	overlayStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
)

// View は画面全体を描画します。
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "起動中...\n"
	}
	if m.overlay != nil {
		return m.overlayView()
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}
	return b.String()
}

// statusBar は添付と生成オプションの現在値を示します。
// 解析モード（添付 2 枚以上）では生成オプションは適用されないため表示しません。
func (m Model) statusBar() string {
	var parts []string

	if n := len(m.attachments); n > 0 {
		parts = append(parts, fmt.Sprintf("添付 %d 件", n))
	}
	if m.imageMode() {
		parts = append(parts, "比率 "+string(m.opts.AspectRatio))
		parts = append(parts, fmt.Sprintf("枚数 %d", m.opts.Variations))
		if m.opts.NegativePrompt != "" {
			parts = append(parts, "除外 "+utils.TruncateRunes(m.opts.NegativePrompt, 20))
		}
		if m.opts.Seed != nil {
			parts = append(parts, fmt.Sprintf("シード %d", utils.DereferenceSeed(m.opts.Seed)))
		}
	} else {
		parts = append(parts, "解析モード")
	}
	if m.orch.InFlight() {
		parts = append(parts, m.spinner.View()+"生成中")
	}
	return faintStyle.Render(strings.Join(parts, "  |  "))
}

// overlayView は拡大画像ビューアを描画します。
func (m Model) overlayView() string {
	o := m.overlay
	content := strings.Join([]string{
		fmt.Sprintf("生成画像 #%d  (%s, %d バイト)", o.index, o.mediaType, o.byteSize),
		"ファイル: " + o.path,
		"",
		o.statusLine(),
		"",
		faintStyle.Render("ホイール/+/-: ズーム  ドラッグ/矢印: 移動  0: リセット  Esc: 閉じる"),
	}, "\n")

	box := overlayStyle.Render(content)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// refreshViewport は会話ストアの内容から本文を組み立て直します。
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript(true))
}

// transcript は /save 用のプレーンテキスト版です。
func (m Model) transcript() string {
	return m.renderTranscript(false)
}

func (m Model) renderTranscript(styled bool) string {
	entries := m.store.Entries()
	if len(entries) == 0 {
		if styled {
			return faintStyle.Render("まだ会話がありません。プロンプトを入力して Enter で送信します。")
		}
		return ""
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(m.renderEntry(e, styled))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderEntry(e domain.ConversationEntry, styled bool) string {
	var b strings.Builder

	switch e.Role {
	case domain.RoleUser:
		label := "あなた"
		if styled {
			label = userLabelStyle.Render(label)
		}
		b.WriteString(label + ": " + e.Text)
		if payload := e.RequestPayload; payload != nil && len(payload.Images) > 0 {
			b.WriteString(fmt.Sprintf("\n  [添付画像 %d 枚]", len(payload.Images)))
		}

	case domain.RoleBot:
		label := "Gemini"
		if styled {
			label = botLabelStyle.Render(label)
		}
		b.WriteString(label + ": ")

		switch {
		case e.IsLoading:
			if styled {
				b.WriteString(m.spinner.View() + "生成中...")
			} else {
				b.WriteString("(生成中)")
			}
		case e.IsErrorState():
			msg := "エラー: " + e.Error
			if styled {
				msg = errorStyle.Render(msg)
			}
			b.WriteString(msg)
		default:
			if e.Text != "" {
				b.WriteString(e.Text)
			}
			if n := len(e.GeneratedImages); n > 0 {
				if e.Text != "" {
					b.WriteString("\n  ")
				}
				b.WriteString(fmt.Sprintf("[生成画像 %d 枚: /open <番号> で表示]", n))
			}
		}
	}
	return b.String()
}
