package domain

// Role は会話エントリの発話者種別です。
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// EncodedImage は転送可能な形にエンコードされた画像ペイロードです。
// Data は base64 文字列、MediaType は検出済みの MIME タイプを保持します。
type EncodedImage struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type"`
}

// GenerationResult は生成 API 呼び出し 1 回分の正規化された成果物です。
// 画像モードでは Images、テキストモードでは Text が設定されます。
type GenerationResult struct {
	Images []EncodedImage
	Text   string
}

// ConversationEntry は会話の 1 ターンを表します。
//
// ユーザーエントリのみ ImagePreviewPaths / RequestPayload を持ち、
// ボットエントリのみ GeneratedImages / IsLoading / Error / UserMessageID を持ちます。
// ボットエントリは常に「ローディング・成功・エラー」のいずれか 1 つの状態にあります。
type ConversationEntry struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text,omitempty"`

	// ユーザーエントリ専用フィールド。
	// ImagePreviewPaths はセッションローカルなプレビュー参照であり、
	// 再起動後の有効性は保証されません（復元時に破棄されます）。
	ImagePreviewPaths []string        `json:"image_preview_paths,omitempty"`
	RequestPayload    *RequestPayload `json:"request_payload,omitempty"`

	// ボットエントリ専用フィールド。
	GeneratedImages []EncodedImage `json:"generated_images,omitempty"`
	IsLoading       bool           `json:"is_loading,omitempty"`
	Error           string         `json:"error,omitempty"`
	UserMessageID   string         `json:"user_message_id,omitempty"`
}

// NewUserEntry はユーザーエントリを作成します。
func NewUserEntry(id, text string, previewPaths []string, payload *RequestPayload) ConversationEntry {
	return ConversationEntry{
		ID:                id,
		Role:              RoleUser,
		Text:              text,
		ImagePreviewPaths: previewPaths,
		RequestPayload:    payload,
	}
}

// NewLoadingBotEntry はローディング状態のボットエントリを作成します。
// userMessageID はこのボットエントリを生んだユーザーエントリへの逆参照です。
func NewLoadingBotEntry(id, userMessageID string) ConversationEntry {
	return ConversationEntry{
		ID:            id,
		Role:          RoleBot,
		IsLoading:     true,
		UserMessageID: userMessageID,
	}
}

// WithSuccess はボットエントリを成功終端状態へ遷移させたコピーを返します。
// ローディングとエラーのフィールドは排他性維持のためクリアされます。
func (e ConversationEntry) WithSuccess(result GenerationResult) ConversationEntry {
	e.IsLoading = false
	e.Error = ""
	e.Text = result.Text
	e.GeneratedImages = result.Images
	return e
}

// WithError はボットエントリをエラー終端状態へ遷移させたコピーを返します。
func (e ConversationEntry) WithError(message string) ConversationEntry {
	e.IsLoading = false
	e.Error = message
	e.Text = ""
	e.GeneratedImages = nil
	return e
}

// ResetToLoading は再試行・編集時にボットエントリをローディング状態へ
// 巻き戻したコピーを返します。ID と UserMessageID は維持されます。
func (e ConversationEntry) ResetToLoading() ConversationEntry {
	e.IsLoading = true
	e.Error = ""
	e.Text = ""
	e.GeneratedImages = nil
	return e
}

// IsSuccess はボットエントリが成功終端状態かどうかを返します。
func (e ConversationEntry) IsSuccess() bool {
	return e.Role == RoleBot && !e.IsLoading && e.Error == "" &&
		(len(e.GeneratedImages) > 0 || e.Text != "")
}

// IsErrorState はボットエントリがエラー終端状態かどうかを返します。
func (e ConversationEntry) IsErrorState() bool {
	return e.Role == RoleBot && !e.IsLoading && e.Error != ""
}
