// Package hydration — snooze.go хранит отсрочки напоминаний в памяти,
// когда Redis не настроен.
package hydration

import (
	"context"
	"sync"
	"time"
)

// Snoozer ставит и снимает отсрочку напоминаний.
// Реализуется Redis-клиентом и MemorySnoozer.
type Snoozer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// MemorySnoozer — отсрочки внутри одного процесса.
type MemorySnoozer struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

// NewMemorySnoozer создаёт хранилище отсрочек в памяти.
func NewMemorySnoozer() *MemorySnoozer {
	return &MemorySnoozer{until: make(map[string]time.Time), now: time.Now}
}

// Claim ставит отсрочку, если её нет или она истекла.
func (m *MemorySnoozer) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.until[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.until[key] = now.Add(ttl)

	// Чистим протухшие ключи, чтобы map не рос бесконечно
	for k, exp := range m.until {
		if !now.Before(exp) {
			delete(m.until, k)
		}
	}
	return true, nil
}

// Release снимает отсрочку.
func (m *MemorySnoozer) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.until, key)
	return nil
}
