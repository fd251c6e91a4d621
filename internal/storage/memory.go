package storage

import "sync"

// MemoryBackend keeps slots in process memory. Nothing survives a restart;
// it backs -ephemeral runs and tests.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryBackend creates a new, empty memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string]string)}
}

// Name returns the backend identifier
func (m *MemoryBackend) Name() string {
	return "memory"
}

// Load returns the value stored under key
func (m *MemoryBackend) Load(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	return v, ok, nil
}

// Save replaces the value stored under key
func (m *MemoryBackend) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

// Delete removes key
func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

// Close is a no-op
func (m *MemoryBackend) Close() error {
	return nil
}

// Register the memory backend
func init() {
	Register("memory", func(Options) (Backend, error) { return NewMemoryBackend(), nil })
}
