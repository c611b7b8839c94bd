package generator

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shouni/gemini-chat-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// buildParts はペイロードから単一のマルチパートメッセージを組み立てます。
// 入力画像を順序どおりに並べ、最後にプロンプトテキストを置きます。
// ネガティブプロンプトは画像モードの場合のみテキスト末尾に付与されます。
func buildParts(payload domain.RequestPayload) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(payload.Images)+1)

	for i, img := range payload.Images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return nil, fmt.Errorf("入力画像 %d 番目のデコードに失敗しました: %w", i, err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MediaType, Data: data},
		})
	}

	text := payload.Prompt
	if payload.ResponseType == domain.ResponseTypeImage && payload.Options.NegativePrompt != "" {
		text = fmt.Sprintf("%s\n\nNegative prompt (avoid): %s", text, payload.Options.NegativePrompt)
	}
	parts = append(parts, &genai.Part{Text: text})

	return parts, nil
}

// parseImages は 1 回の呼び出し応答から画像パーツをパート順にすべて抽出します。
// 画像ゼロ枚は正常です（結合後の空判定は呼び出し元で行います）。
func parseImages(resp *gemini.Response) ([]domain.EncodedImage, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		return nil, err
	}

	var images []domain.EncodedImage
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				images = append(images, domain.EncodedImage{
					Data:      base64.StdEncoding.EncodeToString(part.InlineData.Data),
					MediaType: part.InlineData.MIMEType,
				})
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if len(images) == 0 && candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, newAPIError(fmt.Sprintf("画像生成が異常終了しました (FinishReason: %s)", candidate.FinishReason), nil)
	}

	return images, nil
}

// parseText は 1 回の呼び出し応答からテキストパーツを連結して返します。
func parseText(resp *gemini.Response) (string, error) {
	candidate, err := firstCandidate(resp)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String(), nil
}

// firstCandidate は応答の最初の候補を取り出します。
// 現在の仕様では最初の候補のみを利用します。
func firstCandidate(resp *gemini.Response) (*genai.Candidate, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, newAPIError("Geminiからの有効な応答がありませんでした", nil)
	}
	return resp.RawResponse.Candidates[0], nil
}
