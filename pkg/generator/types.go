// Package generator はチャット 1 ターン分の生成要求を Gemini API へ発行し、
// 成功・失敗を一様な結果へ正規化する生成クライアントを提供します。
package generator

import (
	"context"
	"errors"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

const (
	// DefaultImageModel は画像生成モードで使用する既定モデルです。
	DefaultImageModel = "gemini-2.5-flash-image"
	// DefaultTextModel は画像解析（テキスト）モードで使用する既定モデルです。
	DefaultTextModel = "gemini-2.5-flash"
)

// GenerativeModel は生成クライアントが利用する通信窓口です。
type GenerativeModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// APIError はリモート呼び出しの失敗・空応答・ブロックを表す一様なエラーです。
// この層にリトライ・バックオフはなく、再試行は上位レイヤーのユーザー操作です。
type APIError struct {
	Message string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// newAPIError はエラーを人間可読なメッセージ付きの APIError に包みます。
func newAPIError(message string, cause error) *APIError {
	return &APIError{Message: message, cause: cause}
}

// asAPIError は任意のエラーを APIError へ正規化します。
// 既に APIError であればそのまま、未知の形状は汎用メッセージに包みます。
func asAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if err == nil {
		return newAPIError("生成リクエストが不明な理由で失敗しました", nil)
	}
	return newAPIError("生成リクエストに失敗しました: "+err.Error(), err)
}
