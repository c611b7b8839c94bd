// Package orchestrator は送信・再試行・編集のフローを調整し、
// 応答待ちプレースホルダーのライフサイクルを管理します。
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shouni/gemini-chat-kit/pkg/conversation"
	"github.com/shouni/gemini-chat-kit/pkg/domain"
	"github.com/shouni/gemini-chat-kit/pkg/imgcodec"
)

var (
	// ErrBusy は別のリクエストが実行中であることを示します。
	// 同時送信はストアでは強制されないため、この層で明示的に直列化します。
	ErrBusy = errors.New("別のリクエストが実行中です")
	// ErrEntryNotFound は再試行・編集の対象エントリが存在しないことを示します。
	ErrEntryNotFound = errors.New("対象のエントリが見つかりません")
	// ErrEmptyPrompt は空白のみのプロンプトによる送信を示します（no-op 扱い）。
	ErrEmptyPrompt = errors.New("プロンプトが空です")
)

// Generator は生成クライアントの窓口です。
type Generator interface {
	Generate(ctx context.Context, payload domain.RequestPayload) (*domain.GenerationResult, error)
}

// Orchestrator は会話ストアと生成クライアントの間でリクエストを調整します。
// ボットエントリの状態機械は loading → success|error、
// および再試行・編集による success|error → loading のみを許します。
type Orchestrator struct {
	store *conversation.Store
	gen   Generator

	mu       sync.Mutex
	inFlight bool

	// ユーザーエントリ ID ごとのプレビューハンドル。
	// エントリ削除時に 1 回だけ解放する必要があります。
	previews map[string][]*imgcodec.Preview
}

// New は依存関係を注入して Orchestrator を初期化します。
func New(store *conversation.Store, gen Generator) (*Orchestrator, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if gen == nil {
		return nil, fmt.Errorf("gen (Generator) is required")
	}
	return &Orchestrator{
		store:    store,
		gen:      gen,
		previews: make(map[string][]*imgcodec.Preview),
	}, nil
}

// InFlight はリクエスト実行中かどうかを返します。
// UI はこれが真の間、新規送信を無効化することが期待されます。
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight
}

// Submit はプロンプトと添付ファイルから新しい会話ターンを開始します。
// ユーザーエントリとローディング中のボットエントリをこの順で追記し、
// 生成完了後に同じボットエントリ ID のまま終端状態へ置き換えます。
// 拒否された添付ファイルは理由付きで返され、残りはそのまま処理されます。
func (o *Orchestrator) Submit(ctx context.Context, prompt string, files []imgcodec.FileInput, opts domain.GenerationOptions) ([]imgcodec.Rejection, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := o.begin(); err != nil {
		return nil, err
	}
	defer o.end()

	accepted, rejected := imgcodec.AcceptBatch(files)

	images := make([]domain.EncodedImage, 0, len(accepted))
	var previewPaths []string
	var previews []*imgcodec.Preview
	for _, a := range accepted {
		images = append(images, a.Image)
		p, err := imgcodec.NewPreview(a.Input.Data)
		if err != nil {
			slog.Warn("プレビューの生成に失敗しました", "name", a.Input.Name, "error", err)
			continue
		}
		previews = append(previews, p)
		previewPaths = append(previewPaths, p.Path())
	}

	payload := domain.RequestPayload{
		Prompt:       prompt,
		Images:       images,
		Options:      opts,
		ResponseType: domain.DeriveResponseType(len(images)),
	}

	userID := newID()
	botID := newID()

	o.store.Append(domain.NewUserEntry(userID, prompt, previewPaths, &payload))
	o.store.Append(domain.NewLoadingBotEntry(botID, userID))

	o.mu.Lock()
	o.previews[userID] = previews
	o.mu.Unlock()

	o.execute(ctx, botID, payload)
	return rejected, nil
}

// Retry は元のリクエストペイロードをそのまま再実行します。
// 既存のボットエントリを同じ ID のままローディングへ巻き戻して再利用するため、
// エントリ数と並び順は変化しません。
func (o *Orchestrator) Retry(ctx context.Context, userMessageID string) error {
	if err := o.begin(); err != nil {
		return err
	}
	defer o.end()

	user, bot, err := o.lookupPair(userMessageID)
	if err != nil {
		return err
	}

	o.store.Replace(bot.ID, bot.ResetToLoading())
	o.execute(ctx, bot.ID, *user.RequestPayload)
	return nil
}

// Edit はユーザーエントリのテキストとペイロードのプロンプトだけを差し替え、
// 他のペイロードフィールド（添付画像・オプション）を保持したまま再実行します。
func (o *Orchestrator) Edit(ctx context.Context, userMessageID, newPrompt string) error {
	newPrompt = strings.TrimSpace(newPrompt)
	if newPrompt == "" {
		return ErrEmptyPrompt
	}

	if err := o.begin(); err != nil {
		return err
	}
	defer o.end()

	user, bot, err := o.lookupPair(userMessageID)
	if err != nil {
		return err
	}

	payload := *user.RequestPayload
	payload.Prompt = newPrompt
	user.Text = newPrompt
	user.RequestPayload = &payload
	o.store.Replace(user.ID, user)

	o.store.Replace(bot.ID, bot.ResetToLoading())
	o.execute(ctx, bot.ID, payload)
	return nil
}

// ClearConversation は会話全体と、保持しているプレビューハンドルを破棄します。
func (o *Orchestrator) ClearConversation() {
	o.mu.Lock()
	previews := o.previews
	o.previews = make(map[string][]*imgcodec.Preview)
	o.mu.Unlock()

	for _, list := range previews {
		for _, p := range list {
			p.Release()
		}
	}
	o.store.Clear()
}

// lookupPair は再試行・編集対象のユーザーエントリとボットエントリを解決します。
// どちらかが欠けている場合は診断ログを残して中断します。
func (o *Orchestrator) lookupPair(userMessageID string) (domain.ConversationEntry, domain.ConversationEntry, error) {
	user, ok := o.store.FindByID(userMessageID)
	if !ok || user.Role != domain.RoleUser || user.RequestPayload == nil {
		slog.Warn("再実行対象のユーザーエントリが見つかりません", "user_message_id", userMessageID)
		return domain.ConversationEntry{}, domain.ConversationEntry{}, ErrEntryNotFound
	}

	bot, ok := o.store.FindBotByUserMessageID(userMessageID)
	if !ok {
		slog.Warn("再実行対象のボットエントリが見つかりません", "user_message_id", userMessageID)
		return domain.ConversationEntry{}, domain.ConversationEntry{}, ErrEntryNotFound
	}
	return user, bot, nil
}

// execute は生成呼び出しを行い、ボットエントリを終端状態へ遷移させます。
// リモート起因の失敗はすべてエントリの error フィールドへ吸収され、
// 呼び出しスタックの上位へは伝播しません。
func (o *Orchestrator) execute(ctx context.Context, botID string, payload domain.RequestPayload) {
	result, err := o.gen.Generate(ctx, payload)

	bot, ok := o.store.FindByID(botID)
	if !ok {
		slog.Warn("応答先のボットエントリが消えています", "bot_id", botID)
		return
	}

	if err != nil {
		o.store.Replace(botID, bot.WithError(err.Error()))
		return
	}
	o.store.Replace(botID, bot.WithSuccess(*result))
}

func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return ErrBusy
	}
	o.inFlight = true
	return nil
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.inFlight = false
	o.mu.Unlock()
}

// newID は時系列順に整列する一意な ID を生成します。
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
