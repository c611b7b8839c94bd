// Package tui は Bubble Tea ベースの対話型チャット画面を提供します。
// 生成フローはすべて orchestrator に委譲し、この層は入力と描画だけを扱います。
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shouni/gemini-chat-kit/pkg/conversation"
	"github.com/shouni/gemini-chat-kit/pkg/domain"
	"github.com/shouni/gemini-chat-kit/pkg/imgcodec"
	"github.com/shouni/gemini-chat-kit/pkg/orchestrator"
	"github.com/shouni/gemini-chat-kit/pkg/utils"
)

// Model はチャット画面全体の Bubble Tea モデルです。
type Model struct {
	orch    *orchestrator.Orchestrator
	store   *conversation.Store
	fetcher *imgcodec.Fetcher

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	// 次の送信に添付されるファイル。送信後にクリアされます。
	attachments []imgcodec.FileInput
	opts        domain.GenerationOptions

	// 編集モード中は対象ユーザーエントリの ID を保持します。
	editingID string

	overlay   *imageOverlay
	statusMsg string
	quitting  bool
}

// New は依存関係を注入してチャットモデルを構築します。fetcher は nil でもよく、
// その場合リモート URI の添付が無効になります。
func New(orch *orchestrator.Orchestrator, store *conversation.Store, fetcher *imgcodec.Fetcher) (Model, error) {
	if orch == nil {
		return Model{}, fmt.Errorf("orch (Orchestrator) is required")
	}
	if store == nil {
		return Model{}, fmt.Errorf("store is required")
	}

	ti := textinput.New()
	ti.Placeholder = "プロンプトを入力（/help でコマンド一覧）"
	ti.CharLimit = 4000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		orch:    orch,
		store:   store,
		fetcher: fetcher,
		input:   ti,
		spinner: sp,
		opts:    domain.DefaultGenerationOptions(),
	}, nil
}

// Init は入力カーソルの点滅を開始します。
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update はメッセージを処理してモデルを更新します。
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.overlay != nil {
			m.overlay.handleMouse(msg)
			return m, nil
		}
		return m, nil

	case spinner.TickMsg:
		if m.orch.InFlight() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refreshViewport()
			return m, cmd
		}
		return m, nil

	case generationDoneMsg:
		return m.handleGenerationDone(msg)

	case attachDoneMsg:
		return m.handleAttachDone(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("書き出しに失敗しました: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("会話を書き出しました: %s", msg.path)
		}
		return m, nil

	case overlayOpenedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("画像を開けませんでした: %v", msg.err)
			return m, nil
		}
		m.overlay = newImageOverlay(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	chrome := 6 // ステータスバー・入力欄・余白ぶん
	if !m.ready {
		m.viewport = viewport.New(msg.Width, msg.Height-chrome)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - chrome
	}
	m.refreshViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// オーバーレイ表示中はビューアがキーを専有します。
	if m.overlay != nil {
		if m.overlay.handleKey(msg) {
			m.overlay = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		if m.editingID != "" {
			m.editingID = ""
			m.input.SetValue("")
			m.statusMsg = "編集をキャンセルしました"
		}
		return m, nil

	case "enter":
		return m.submit()

	case "ctrl+r":
		return m.retryLast()

	case "ctrl+e":
		return m.beginEditLast()

	case "tab":
		// アスペクト比の巡回は画像モード（添付 1 枚以下）のときだけ有効です。
		if m.imageMode() {
			m.opts.AspectRatio = nextAspectRatio(m.opts.AspectRatio)
		}
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit は入力欄の内容を送信します。スラッシュコマンドはここで振り分けます。
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		// 空白のみの送信は何もしない（エントリも追加しない）
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.handleCommand(text)
	}

	if m.orch.InFlight() {
		m.statusMsg = "前のリクエストの完了を待っています"
		return m, nil
	}

	m.input.SetValue("")
	m.statusMsg = ""

	if m.editingID != "" {
		id := m.editingID
		m.editingID = ""
		return m, tea.Batch(editCmd(m.orch, id, text), m.spinner.Tick)
	}

	files := m.attachments
	m.attachments = nil
	return m, tea.Batch(submitCmd(m.orch, text, files, m.opts), m.spinner.Tick)
}

// handleCommand はスラッシュコマンドを解釈します。
func (m Model) handleCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	name := fields[0]
	args := fields[1:]

	switch name {
	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit

	case "/help":
		m.statusMsg = helpText
		return m, nil

	case "/attach":
		if len(args) == 0 {
			m.statusMsg = "使い方: /attach <ファイルパス|URL>"
			return m, nil
		}
		target := args[0]
		if isRemoteURI(target) {
			m.statusMsg = "取得中: " + utils.TruncateRunes(target, 60)
			return m, attachRemoteCmd(m.fetcher, target)
		}
		return m, attachLocalCmd(target)

	case "/detach":
		m.attachments = nil
		m.statusMsg = "添付をすべて外しました"
		return m, nil

	case "/clear":
		m.orch.ClearConversation()
		m.attachments = nil
		m.editingID = ""
		m.statusMsg = "会話をクリアしました"
		m.refreshViewport()
		return m, nil

	case "/save":
		path := "conversation.txt"
		if len(args) > 0 {
			path = args[0]
		}
		return m, exportCmd(m.transcript(), path)

	case "/open":
		return m.openImage(args)

	case "/download":
		return m.downloadImage(args)

	case "/ratio":
		if !m.imageMode() {
			m.statusMsg = "解析モードでは生成オプションを使用できません"
			return m, nil
		}
		m.opts.AspectRatio = nextAspectRatio(m.opts.AspectRatio)
		m.statusMsg = "アスペクト比: " + string(m.opts.AspectRatio)
		return m, nil

	case "/vars":
		return m.setVariations(args)

	case "/neg":
		if !m.imageMode() {
			m.statusMsg = "解析モードでは生成オプションを使用できません"
			return m, nil
		}
		m.opts.NegativePrompt = strings.Join(args, " ")
		if m.opts.NegativePrompt == "" {
			m.statusMsg = "ネガティブプロンプトを外しました"
		} else {
			m.statusMsg = "ネガティブプロンプト: " + m.opts.NegativePrompt
		}
		return m, nil

	case "/seed":
		return m.setSeed(args)

	default:
		m.statusMsg = "不明なコマンドです: " + name + "（/help で一覧）"
		return m, nil
	}
}

func (m Model) setVariations(args []string) (tea.Model, tea.Cmd) {
	if !m.imageMode() {
		m.statusMsg = "解析モードでは生成オプションを使用できません"
		return m, nil
	}
	if len(args) == 0 {
		m.statusMsg = fmt.Sprintf("使い方: /vars <%d-%d>", domain.MinVariations, domain.MaxVariations)
		return m, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || !domain.VariationCount(n).Valid() {
		m.statusMsg = fmt.Sprintf("バリエーション数は %d〜%d で指定してください", domain.MinVariations, domain.MaxVariations)
		return m, nil
	}
	m.opts.Variations = domain.VariationCount(n)
	m.statusMsg = fmt.Sprintf("バリエーション数: %d", n)
	return m, nil
}

func (m Model) setSeed(args []string) (tea.Model, tea.Cmd) {
	if !m.imageMode() {
		m.statusMsg = "解析モードでは生成オプションを使用できません"
		return m, nil
	}
	if len(args) == 0 || args[0] == "off" {
		m.opts.Seed = nil
		m.statusMsg = "シードをランダムに戻しました"
		return m, nil
	}
	seed, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		m.statusMsg = "シードは整数または off で指定してください"
		return m, nil
	}
	m.opts.Seed = &seed
	m.statusMsg = "シード: " + args[0]
	return m, nil
}

// openImage は最後の成功応答の生成画像をビューアで開きます。
func (m Model) openImage(args []string) (tea.Model, tea.Cmd) {
	index := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			m.statusMsg = "使い方: /open <画像番号>"
			return m, nil
		}
		index = n
	}

	images := m.lastGeneratedImages()
	if len(images) == 0 {
		m.statusMsg = "表示できる生成画像がありません"
		return m, nil
	}
	if index > len(images) {
		m.statusMsg = fmt.Sprintf("画像は %d 枚までです", len(images))
		return m, nil
	}
	return m, openImageCmd(images[index-1], index)
}

// downloadImage は最後の成功応答の生成画像をファイルへ保存します。
func (m Model) downloadImage(args []string) (tea.Model, tea.Cmd) {
	images := m.lastGeneratedImages()
	if len(images) == 0 {
		m.statusMsg = "保存できる生成画像がありません"
		return m, nil
	}

	index := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(images) {
			m.statusMsg = fmt.Sprintf("使い方: /download <1-%d> [保存先]", len(images))
			return m, nil
		}
		index = n
	}

	img := images[index-1]
	path := fmt.Sprintf("generated-%d%s", index, extensionFor(img.MediaType))
	if len(args) > 1 {
		path = args[1]
	}
	return m, saveImageCmd(img, path)
}

// retryLast は最後のターンを同じペイロードで再実行します。
func (m Model) retryLast() (tea.Model, tea.Cmd) {
	if m.orch.InFlight() {
		m.statusMsg = "前のリクエストの完了を待っています"
		return m, nil
	}
	userID, ok := m.lastUserMessageID()
	if !ok {
		m.statusMsg = "再試行できるターンがありません"
		return m, nil
	}
	m.statusMsg = ""
	return m, tea.Batch(retryCmd(m.orch, userID), m.spinner.Tick)
}

// beginEditLast は最後のターンのプロンプトを入力欄へ引き込み、編集モードへ入ります。
func (m Model) beginEditLast() (tea.Model, tea.Cmd) {
	if m.orch.InFlight() {
		m.statusMsg = "前のリクエストの完了を待っています"
		return m, nil
	}
	userID, ok := m.lastUserMessageID()
	if !ok {
		m.statusMsg = "編集できるターンがありません"
		return m, nil
	}
	entry, _ := m.store.FindByID(userID)
	m.editingID = userID
	m.input.SetValue(entry.Text)
	m.input.CursorEnd()
	m.statusMsg = "編集モード（Enter で再実行、Esc でキャンセル）"
	return m, nil
}

func (m Model) handleGenerationDone(msg generationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMsg = fmt.Sprintf("送信できませんでした: %v", msg.err)
	} else if len(msg.rejected) > 0 {
		var names []string
		for _, r := range msg.rejected {
			names = append(names, fmt.Sprintf("%s (%s)", r.Name, r.Err.Reason))
		}
		m.statusMsg = "一部の添付を除外しました: " + strings.Join(names, ", ")
	}
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleAttachDone(msg attachDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMsg = fmt.Sprintf("添付できませんでした (%s): %v", msg.name, msg.err)
		return m, nil
	}
	m.attachments = append(m.attachments, imgcodec.FileInput{Name: msg.name, Data: msg.data})
	m.statusMsg = fmt.Sprintf("添付しました: %s（計 %d 件）", msg.name, len(m.attachments))
	return m, nil
}

// imageMode は次の送信が画像生成モードになるかどうかを返します。
// 添付が 2 枚以上になると解析（テキスト）モードに切り替わります。
func (m Model) imageMode() bool {
	return domain.DeriveResponseType(len(m.attachments)) == domain.ResponseTypeImage
}

// lastUserMessageID は最後のユーザーエントリの ID を返します。
func (m Model) lastUserMessageID() (string, bool) {
	entries := m.store.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Role == domain.RoleUser {
			return entries[i].ID, true
		}
	}
	return "", false
}

// lastGeneratedImages は最後の成功ボットエントリの生成画像を返します。
func (m Model) lastGeneratedImages() []domain.EncodedImage {
	entries := m.store.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Role == domain.RoleBot && entries[i].IsSuccess() && len(entries[i].GeneratedImages) > 0 {
			return entries[i].GeneratedImages
		}
	}
	return nil
}

// nextAspectRatio は列挙集合を巡回します。
func nextAspectRatio(current domain.AspectRatio) domain.AspectRatio {
	for i, r := range domain.AspectRatios {
		if r == current {
			return domain.AspectRatios[(i+1)%len(domain.AspectRatios)]
		}
	}
	return domain.AspectRatios[0]
}

const helpText = "/attach <パス|URL>  /detach  /ratio  /vars <n>  /neg <語>  /seed <n|off>  /open <n>  /download <n> [先]  /save [パス]  /clear  /quit | Tab: 比率  Ctrl+R: 再試行  Ctrl+E: 編集"
