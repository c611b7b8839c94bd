package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shouni/gemini-chat-kit/pkg/viewer"
)

// imageOverlay は拡大表示中の生成画像 1 枚分の状態です。
// 開くたびに新しい viewer.Viewer を持ち、閉じると一時ファイルごと破棄されます。
type imageOverlay struct {
	view      *viewer.Viewer
	index     int
	mediaType string
	byteSize  int
	path      string
}

func newImageOverlay(msg overlayOpenedMsg) *imageOverlay {
	return &imageOverlay{
		view:      viewer.New(),
		index:     msg.index,
		mediaType: msg.mediaType,
		byteSize:  msg.byteSize,
		path:      msg.path,
	}
}

// handleKey はオーバーレイ表示中のキー操作を処理します。
// 閉じた場合は true を返します。
func (o *imageOverlay) handleKey(msg tea.KeyMsg) (closed bool) {
	switch msg.String() {
	case "esc", "q":
		o.close()
		return true
	case "+", "=":
		o.view.ZoomIn()
	case "-", "_":
		o.view.ZoomOut()
	case "0", "r":
		o.view.Reset()
	case "left", "h":
		o.pan(panStep, 0)
	case "right", "l":
		o.pan(-panStep, 0)
	case "up", "k":
		o.pan(0, panStep)
	case "down", "j":
		o.pan(0, -panStep)
	}
	return false
}

const panStep = 16.0

// handleMouse はホイールによるズームとドラッグによるパンを処理します。
func (o *imageOverlay) handleMouse(msg tea.MouseMsg) {
	switch msg.Type {
	case tea.MouseWheelUp:
		o.view.ZoomIn()
	case tea.MouseWheelDown:
		o.view.ZoomOut()
	case tea.MouseLeft:
		if o.view.Dragging() {
			o.view.DragTo(float64(msg.X), float64(msg.Y))
		} else {
			o.view.StartDrag(float64(msg.X), float64(msg.Y))
		}
	case tea.MouseMotion:
		o.view.DragTo(float64(msg.X), float64(msg.Y))
	case tea.MouseRelease:
		o.view.EndDrag()
	}
}

func (o *imageOverlay) pan(dx, dy float64) {
	o.view.StartDrag(0, 0)
	o.view.DragTo(dx, dy)
	o.view.EndDrag()
}

// close はビューアを明示的に閉じ、展開した一時ファイルを削除します。
func (o *imageOverlay) close() {
	o.view.Close()
	if o.path != "" {
		os.Remove(o.path)
		o.path = ""
	}
}

// statusLine はズーム・パンの現在値を示す 1 行です。
func (o *imageOverlay) statusLine() string {
	x, y := o.view.Offset()
	return fmt.Sprintf("倍率 %.2fx  位置 (%+.0f, %+.0f)", o.view.Zoom(), x, y)
}
