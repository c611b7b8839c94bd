package generator

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/gemini-chat-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// Client は会話 1 ターン分の生成を担当する統合クライアントです。
// 応答種別に応じてモデルを切り替え、画像モードではバリエーション数ぶんの
// 並列呼び出しを 1 つの結果に結合します。
type Client struct {
	aiClient   GenerativeModel
	imageModel string
	textModel  string
}

// NewClient は依存関係を注入して Client を初期化するのだ。
// モデル名が空の場合は既定モデルを使用します。
func NewClient(aiClient GenerativeModel, imageModel, textModel string) (*Client, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (GenerativeModel) is required")
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}

	return &Client{
		aiClient:   aiClient,
		imageModel: imageModel,
		textModel:  textModel,
	}, nil
}

// Generate はペイロードを実行し、成功・失敗を一様な結果へ正規化します。
// リモート起因の失敗はすべて *APIError として返ります。
func (c *Client) Generate(ctx context.Context, payload domain.RequestPayload) (*domain.GenerationResult, error) {
	parts, err := buildParts(payload)
	if err != nil {
		return nil, err
	}

	if payload.ResponseType == domain.ResponseTypeText {
		return c.generateText(ctx, parts)
	}
	return c.generateImages(ctx, parts, payload.Options)
}

// generateText は解析モードの単一呼び出しを行うのだ。
func (c *Client) generateText(ctx context.Context, parts []*genai.Part) (*domain.GenerationResult, error) {
	resp, err := c.aiClient.GenerateWithParts(ctx, c.textModel, parts, gemini.GenerateOptions{})
	if err != nil {
		return nil, asAPIError(err)
	}

	text, err := parseText(resp)
	if err != nil {
		return nil, asAPIError(err)
	}
	if text == "" {
		return nil, newAPIError("応答にテキストが含まれていませんでした", nil)
	}

	return &domain.GenerationResult{Text: text}, nil
}

// generateImages はバリエーション数ぶんの独立した並列呼び出しを発行し、
// 呼び出し順・パート順を保って 1 つの画像列に結合します。
// 1 つでも失敗すれば全体が失敗します（部分成功なし）。
func (c *Client) generateImages(ctx context.Context, parts []*genai.Part, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	gOpts := gemini.GenerateOptions{
		AspectRatio: string(opts.AspectRatio),
		Seed:        opts.Seed,
	}

	variations := int(opts.Variations)
	if variations < 1 {
		variations = 1
	}

	slog.Info("画像生成リクエストを発行します",
		"model", c.imageModel, "variations", variations, "aspect_ratio", gOpts.AspectRatio)

	perCall := make([][]domain.EncodedImage, variations)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < variations; i++ {
		g.Go(func() error {
			resp, err := c.aiClient.GenerateWithParts(gctx, c.imageModel, parts, gOpts)
			if err != nil {
				return err
			}
			images, err := parseImages(resp)
			if err != nil {
				return err
			}
			perCall[i] = images
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, asAPIError(err)
	}

	var combined []domain.EncodedImage
	for _, images := range perCall {
		combined = append(combined, images...)
	}
	if len(combined) == 0 {
		return nil, newAPIError("画像が生成されませんでした（ブロックまたは空応答の可能性があります）", nil)
	}

	return &domain.GenerationResult{Images: combined}, nil
}
