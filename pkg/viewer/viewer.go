// Package viewer は拡大画像ビューアの対話状態（ズーム・パン）を管理します。
// 描画や入力デバイスには依存せず、UI 層から差分だけを受け取ります。
package viewer

// ズーム倍率の許容範囲。範囲外の操作は境界値へ丸められます。
const (
	MinZoom = 0.5
	MaxZoom = 5.0

	// ZoomStep はホイール 1 ノッチあたりの倍率変化量です。
	ZoomStep = 0.25
)

// Viewer は 1 枚の画像を表示している間だけ生きる対話状態です。
// 開くたびに新しいインスタンスを作り、前回のズーム・パンは引き継ぎません。
type Viewer struct {
	zoom    float64
	offsetX float64
	offsetY float64

	dragging  bool
	lastDragX float64
	lastDragY float64
	closed    bool
}

// New は等倍・パンなしの初期状態を返します。
func New() *Viewer {
	return &Viewer{zoom: 1.0}
}

// Zoom は現在のズーム倍率を返します。
func (v *Viewer) Zoom() float64 {
	return v.zoom
}

// Offset は現在のパンオフセットを返します。
func (v *Viewer) Offset() (x, y float64) {
	return v.offsetX, v.offsetY
}

// Closed はビューアが閉じられたかどうかを返します。
func (v *Viewer) Closed() bool {
	return v.closed
}

// Dragging はドラッグ操作中かどうかを返します。
func (v *Viewer) Dragging() bool {
	return v.dragging
}

// ZoomIn は 1 ノッチ分だけ拡大します。上限で頭打ちになります。
func (v *Viewer) ZoomIn() {
	v.SetZoom(v.zoom + ZoomStep)
}

// ZoomOut は 1 ノッチ分だけ縮小します。下限で頭打ちになります。
func (v *Viewer) ZoomOut() {
	v.SetZoom(v.zoom - ZoomStep)
}

// SetZoom はズーム倍率を直接指定します。範囲外の値は境界へ丸められます。
func (v *Viewer) SetZoom(zoom float64) {
	if v.closed {
		return
	}
	v.zoom = clamp(zoom, MinZoom, MaxZoom)
}

// StartDrag はパン操作を開始し、基準座標を記録します。
func (v *Viewer) StartDrag(x, y float64) {
	if v.closed {
		return
	}
	v.dragging = true
	v.lastDragX = x
	v.lastDragY = y
}

// DragTo はドラッグ中の移動をオフセットへ反映します。
// ドラッグ中でなければ何もしません。
func (v *Viewer) DragTo(x, y float64) {
	if !v.dragging || v.closed {
		return
	}
	v.offsetX += x - v.lastDragX
	v.offsetY += y - v.lastDragY
	v.lastDragX = x
	v.lastDragY = y
}

// EndDrag はパン操作を終了します。オフセットはそのまま残ります。
func (v *Viewer) EndDrag() {
	v.dragging = false
}

// Reset はズームとパンを初期状態へ戻します。ビューア自体は開いたままです。
func (v *Viewer) Reset() {
	if v.closed {
		return
	}
	v.zoom = 1.0
	v.offsetX = 0
	v.offsetY = 0
	v.dragging = false
}

// Close はビューアを閉じます。以後の操作はすべて無視されます。
// ズームやパンの操作で暗黙に閉じることはなく、閉じるのは常に明示的です。
func (v *Viewer) Close() {
	v.closed = true
	v.dragging = false
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
