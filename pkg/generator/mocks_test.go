package generator

import (
	"context"
	"sync"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockAIClient は GenerativeModel のテストダブルです。
// 並列フォールトテストのため呼び出しカウンタはミューテックスで保護します。
type mockAIClient struct {
	mu        sync.Mutex
	calls     int
	models    []string
	optsSeen  []gemini.GenerateOptions
	partsSeen [][]*genai.Part

	// respond は呼び出し番号（1 始まり）ごとの応答を決めます。
	respond func(call int) (*gemini.Response, error)
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.models = append(m.models, model)
	m.optsSeen = append(m.optsSeen, opts)
	m.partsSeen = append(m.partsSeen, parts)
	respond := m.respond
	m.mu.Unlock()

	if respond == nil {
		return imageResponse([]byte("fake")), nil
	}
	return respond(call)
}

func (m *mockAIClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// imageResponse は InlineData 画像パーツのみを含む応答を作ります。
func imageResponse(datas ...[]byte) *gemini.Response {
	parts := make([]*genai.Part, 0, len(datas))
	for _, d := range datas {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/png", Data: d},
		})
	}
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Parts: parts},
				FinishReason: genai.FinishReasonStop,
			}},
		},
	}
}

// textResponse はテキストパーツのみを含む応答を作ります。
func textResponse(texts ...string) *gemini.Response {
	parts := make([]*genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, &genai.Part{Text: t})
	}
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: parts},
			}},
		},
	}
}

// blockedResponse は安全フィルターでブロックされた空応答を作ります。
func blockedResponse() *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content:      &genai.Content{},
				FinishReason: genai.FinishReasonSafety,
			}},
		},
	}
}
