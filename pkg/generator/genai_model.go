package generator

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-chat-kit/pkg/utils"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// GenaiModel は google.golang.org/genai の公式クライアントを
// GenerativeModel インターフェースに適合させるアダプターです。
// クライアントは資格情報を保持した状態でプロセス起動時に 1 回だけ構築し、
// 環境変数などのアンビエントな状態を実行時に参照しません。
type GenaiModel struct {
	client *genai.Client
}

// NewGenaiModel は構築済みの genai クライアントを包んで返します。
func NewGenaiModel(client *genai.Client) (*GenaiModel, error) {
	if client == nil {
		return nil, fmt.Errorf("client (*genai.Client) is required")
	}
	return &GenaiModel{client: client}, nil
}

// GenerateWithParts はパーツ列を単一のユーザーメッセージとして送信します。
// アスペクト比は構造化された生成設定（ImageConfig）として渡され、
// プロンプトテキストには埋め込みません。
func (m *GenaiModel) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	config := &genai.GenerateContentConfig{}
	if opts.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.SystemPrompt}},
		}
	}
	if opts.Seed != nil {
		config.Seed = utils.SeedToPtrInt32(opts.Seed)
	}
	if opts.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: opts.AspectRatio}
	}

	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: parts},
	}

	resp, err := m.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, err
	}
	return &gemini.Response{RawResponse: resp}, nil
}
