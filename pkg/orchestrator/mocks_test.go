package orchestrator

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-chat-kit/pkg/domain"
)

// pngBytes は添付テスト用の小さな PNG を返します。
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{200, 40, 40, 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

// mockGenerator は Generator のテスト用実装です。
// 呼び出しごとのペイロードを記録し、respond で応答を差し替えられます。
type mockGenerator struct {
	mu       sync.Mutex
	payloads []domain.RequestPayload
	respond  func(call int, payload domain.RequestPayload) (*domain.GenerationResult, error)
}

func (m *mockGenerator) Generate(_ context.Context, payload domain.RequestPayload) (*domain.GenerationResult, error) {
	m.mu.Lock()
	m.payloads = append(m.payloads, payload)
	call := len(m.payloads)
	m.mu.Unlock()

	if m.respond != nil {
		return m.respond(call, payload)
	}
	return &domain.GenerationResult{
		Images: []domain.EncodedImage{{Data: "aW1n", MediaType: "image/png"}},
	}, nil
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}

func (m *mockGenerator) payloadAt(i int) domain.RequestPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payloads[i]
}
