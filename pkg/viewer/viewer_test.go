package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewer_Zoom(t *testing.T) {
	t.Run("初期状態は等倍でパンなしなのだ", func(t *testing.T) {
		v := New()
		assert.Equal(t, 1.0, v.Zoom())
		x, y := v.Offset()
		assert.Zero(t, x)
		assert.Zero(t, y)
		assert.False(t, v.Closed())
	})

	t.Run("ズームは上限と下限で頭打ちになる", func(t *testing.T) {
		v := New()
		for i := 0; i < 100; i++ {
			v.ZoomIn()
		}
		assert.Equal(t, MaxZoom, v.Zoom())

		for i := 0; i < 100; i++ {
			v.ZoomOut()
		}
		assert.Equal(t, MinZoom, v.Zoom())
	})

	t.Run("範囲外の直接指定も境界へ丸められる", func(t *testing.T) {
		v := New()
		v.SetZoom(42.0)
		assert.Equal(t, MaxZoom, v.Zoom())
		v.SetZoom(-1.0)
		assert.Equal(t, MinZoom, v.Zoom())
		v.SetZoom(2.5)
		assert.Equal(t, 2.5, v.Zoom())
	})
}

func TestViewer_Pan(t *testing.T) {
	t.Run("ドラッグの移動量がオフセットに累積する", func(t *testing.T) {
		v := New()
		v.StartDrag(100, 100)
		v.DragTo(110, 95)
		v.DragTo(120, 90)
		v.EndDrag()

		x, y := v.Offset()
		assert.Equal(t, 20.0, x)
		assert.Equal(t, -10.0, y)

		// 2回目のドラッグは前回のオフセットに足される
		v.StartDrag(50, 50)
		v.DragTo(55, 50)
		x, y = v.Offset()
		assert.Equal(t, 25.0, x)
		assert.Equal(t, -10.0, y)
	})

	t.Run("ドラッグ開始前の移動は無視される", func(t *testing.T) {
		v := New()
		v.DragTo(100, 100)
		x, y := v.Offset()
		assert.Zero(t, x)
		assert.Zero(t, y)
	})

	t.Run("EndDrag後の移動は反映されない", func(t *testing.T) {
		v := New()
		v.StartDrag(0, 0)
		v.DragTo(10, 10)
		v.EndDrag()
		v.DragTo(100, 100)

		x, y := v.Offset()
		assert.Equal(t, 10.0, x)
		assert.Equal(t, 10.0, y)
	})
}

func TestViewer_Reset(t *testing.T) {
	v := New()
	v.ZoomIn()
	v.StartDrag(0, 0)
	v.DragTo(30, 40)

	v.Reset()

	assert.Equal(t, 1.0, v.Zoom())
	x, y := v.Offset()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.False(t, v.Dragging())
}

func TestViewer_Close(t *testing.T) {
	t.Run("ズームやパンでは閉じず明示的なCloseでのみ閉じる", func(t *testing.T) {
		v := New()
		v.ZoomIn()
		v.StartDrag(0, 0)
		v.DragTo(10, 10)
		v.EndDrag()
		assert.False(t, v.Closed())

		v.Close()
		assert.True(t, v.Closed())
	})

	t.Run("閉じた後の操作はすべて無視される", func(t *testing.T) {
		v := New()
		v.Close()

		v.ZoomIn()
		v.StartDrag(0, 0)
		v.DragTo(50, 50)

		assert.Equal(t, 1.0, v.Zoom())
		x, y := v.Offset()
		assert.Zero(t, x)
		assert.Zero(t, y)
		assert.False(t, v.Dragging())
	})

	t.Run("再度開くときは新しいインスタンスで状態が引き継がれない", func(t *testing.T) {
		first := New()
		first.SetZoom(3.0)
		first.Close()

		second := New()
		assert.Equal(t, 1.0, second.Zoom())
		assert.False(t, second.Closed())
	})
}
