package tui

import (
	"github.com/shouni/gemini-chat-kit/pkg/imgcodec"
)

// generationDoneMsg は送信・再試行・編集の 1 サイクルが終わったことを通知します。
// 生成自体の失敗はボットエントリに吸収されるため、err には
// 送信前の検証エラー（ErrBusy や ErrEmptyPrompt など）だけが入ります。
type generationDoneMsg struct {
	rejected []imgcodec.Rejection
	err      error
}

// attachDoneMsg はリモート URI からの添付取得の結果です。
type attachDoneMsg struct {
	name string
	data []byte
	err  error
}

// exportDoneMsg は会話ログの書き出し結果です。
type exportDoneMsg struct {
	path string
	err  error
}

// overlayOpenedMsg は生成画像をビューアで開いた結果です。
// 端末では画像を直接描画できないため、一時ファイルへ展開してパスを示します。
type overlayOpenedMsg struct {
	index     int
	mediaType string
	byteSize  int
	path      string
	err       error
}
