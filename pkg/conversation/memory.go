package conversation

import "sync"

// MemoryStorage はプロセス内のみで有効な Storage 実装です。テスト用途のほか、
// 永続化を無効にして起動する場合に使います。
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
	ok   bool
}

// NewMemoryStorage は空のインメモリスロットを返します。
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		return nil, false, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, true, nil
}

func (m *MemoryStorage) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.ok = true
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.ok = false
	return nil
}
