package domain

import "fmt"

// ResponseType は 1 回の生成要求が期待する応答種別です。
// 添付画像が 2 枚以上の場合は解析（テキスト）モード、それ以外は画像生成モードになります。
type ResponseType string

const (
	ResponseTypeImage ResponseType = "image"
	ResponseTypeText  ResponseType = "text"
)

// DeriveResponseType は入力画像の枚数から応答種別を導出します。
func DeriveResponseType(imageCount int) ResponseType {
	if imageCount >= 2 {
		return ResponseTypeText
	}
	return ResponseTypeImage
}

// AspectRatio は画像生成時のアスペクト比です。固定の列挙集合のみ許容します。
type AspectRatio string

const (
	AspectRatioSquare    AspectRatio = "1:1"
	AspectRatioWide      AspectRatio = "16:9"
	AspectRatioTall      AspectRatio = "9:16"
	AspectRatioLandscape AspectRatio = "4:3"
	AspectRatioPortrait  AspectRatio = "3:4"
)

// AspectRatios は許容されるアスペクト比の一覧です（UI の巡回表示順）。
var AspectRatios = []AspectRatio{
	AspectRatioSquare,
	AspectRatioWide,
	AspectRatioTall,
	AspectRatioLandscape,
	AspectRatioPortrait,
}

// Valid は列挙集合に含まれるかどうかを返します。
func (a AspectRatio) Valid() bool {
	for _, v := range AspectRatios {
		if a == v {
			return true
		}
	}
	return false
}

// VariationCount は画像モードで発行する並列生成呼び出しの数です。
type VariationCount int

const (
	MinVariations VariationCount = 1
	MaxVariations VariationCount = 4
)

// Valid は許容範囲内かどうかを返します。
func (v VariationCount) Valid() bool {
	return v >= MinVariations && v <= MaxVariations
}

// GenerationOptions は 1 回の生成要求のユーザー指定パラメータです。
// Seed は再現性確保のためのオプション値で、nil の場合はランダムになります。
type GenerationOptions struct {
	AspectRatio    AspectRatio    `json:"aspect_ratio"`
	Variations     VariationCount `json:"variations"`
	NegativePrompt string         `json:"negative_prompt,omitempty"`
	Seed           *int64         `json:"seed,omitempty"`
}

// DefaultGenerationOptions は既定値（正方形・1 枚・ネガティブプロンプトなし）を返します。
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		AspectRatio: AspectRatioSquare,
		Variations:  MinVariations,
	}
}

// Validate はオプションが列挙集合の範囲内であることを検証します。
func (o GenerationOptions) Validate() error {
	if !o.AspectRatio.Valid() {
		return fmt.Errorf("不正なアスペクト比です: %q", o.AspectRatio)
	}
	if !o.Variations.Valid() {
		return fmt.Errorf("不正なバリエーション数です: %d (許容範囲 %d-%d)", o.Variations, MinVariations, MaxVariations)
	}
	return nil
}

// RequestPayload は 1 回の生成試行を決定づける完全な入力です。
// 再試行・編集時にはこのペイロードがそのまま再利用されます。
type RequestPayload struct {
	Prompt       string            `json:"prompt"`
	Images       []EncodedImage    `json:"images,omitempty"`
	Options      GenerationOptions `json:"options"`
	ResponseType ResponseType      `json:"response_type"`
}
