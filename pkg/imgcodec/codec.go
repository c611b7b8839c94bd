// Package imgcodec は添付画像の検証・転送用エンコード・ローカルプレビュー生成を担当します。
package imgcodec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/shouni/gemini-chat-kit/pkg/domain"
)

// MaxImageBytes は 1 ファイルあたりの上限サイズです。
const MaxImageBytes = 10 << 20 // 10 MiB

// allowedMediaTypes は転送を許可する MIME タイプの固定リストです。
var allowedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// ValidationError は入力境界で弾かれたファイルの理由を保持します。
// この層で処理が完結し、オーケストレーターには到達しません。
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

// FileInput はユーザーが選択・ドロップした 1 ファイル分の入力です。
type FileInput struct {
	Name string
	Data []byte
}

// Rejection はバッチ内で拒否されたファイルとその理由です。
type Rejection struct {
	Name string
	Err  *ValidationError
}

// AcceptedFile は検証を通過したファイルと、その転送用エンコード結果の組です。
// プレビュー生成のため元のバイト列も保持します。
type AcceptedFile struct {
	Input FileInput
	Image domain.EncodedImage
}

// DetectMediaType はバイト列から MIME タイプを検出します。
func DetectMediaType(data []byte) string {
	return http.DetectContentType(data)
}

// validate は許可リストとサイズ上限を検証します。違反時は *ValidationError を返します。
func validate(name string, data []byte) *ValidationError {
	if len(data) > MaxImageBytes {
		return &ValidationError{
			Name:   name,
			Reason: fmt.Sprintf("ファイルサイズが上限を超えています (%d バイト、上限 %d バイト)", len(data), MaxImageBytes),
		}
	}
	mediaType := DetectMediaType(data)
	if _, ok := allowedMediaTypes[mediaType]; !ok {
		return &ValidationError{
			Name:   name,
			Reason: fmt.Sprintf("対応していない画像形式です: %s (JPEG/PNG/WEBP のみ)", mediaType),
		}
	}
	return nil
}

// EncodeForTransport は画像バイト列を検証したうえで転送可能な形にエンコードします。
func EncodeForTransport(name string, data []byte) (domain.EncodedImage, error) {
	if verr := validate(name, data); verr != nil {
		return domain.EncodedImage{}, verr
	}
	return domain.EncodedImage{
		Data:      base64.StdEncoding.EncodeToString(data),
		MediaType: DetectMediaType(data),
	}, nil
}

// DecodeForDisplay は転送形式の画像を表示用のバイト列に戻します。
func DecodeForDisplay(img domain.EncodedImage) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return nil, fmt.Errorf("画像ペイロードのデコードに失敗しました: %w", err)
	}
	return data, nil
}

// AcceptBatch はバッチ内の各ファイルを個別に検証します。
// 不正なファイルは理由付きで拒否され、残りの正常なファイルはそのまま処理されます。
func AcceptBatch(files []FileInput) ([]AcceptedFile, []Rejection) {
	var accepted []AcceptedFile
	var rejected []Rejection

	for _, f := range files {
		encoded, err := EncodeForTransport(f.Name, f.Data)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				verr = &ValidationError{Name: f.Name, Reason: err.Error()}
			}
			rejected = append(rejected, Rejection{Name: f.Name, Err: verr})
			continue
		}
		accepted = append(accepted, AcceptedFile{Input: f, Image: encoded})
	}
	return accepted, rejected
}
