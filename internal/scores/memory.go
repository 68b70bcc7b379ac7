package scores

import (
	"context"
	"sync"
)

type Memory struct {
	mu    sync.Mutex
	times map[string]int
}

func NewMemory() *Memory {
	return &Memory{times: make(map[string]int)}
}

func (m *Memory) Load(_ context.Context, difficulty string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seconds, ok := m.times[difficulty]
	return seconds, ok, nil
}

func (m *Memory) SaveIfBetter(_ context.Context, difficulty string, seconds int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if best, ok := m.times[difficulty]; ok && best <= seconds {
		return false, nil
	}
	m.times[difficulty] = seconds
	return true, nil
}
