package repositories

import "sync"

// MemoryStateRepository is an in-memory implementation of StateRepository.
type MemoryStateRepository struct {
	values map[string]string
	mu     sync.RWMutex
}

// NewMemoryStateRepository creates a new instance of MemoryStateRepository.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (r *MemoryStateRepository) Get(key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (r *MemoryStateRepository) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

// Delete removes keys; missing keys are ignored.
func (r *MemoryStateRepository) Delete(keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}
