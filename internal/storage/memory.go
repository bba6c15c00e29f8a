package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type MemoryStorage struct {
	contents map[string][]byte
	mu       sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		contents: make(map[string][]byte),
	}
}

func (m *MemoryStorage) Init() error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) Get(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, exists := m.contents[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrContentNotFound, name)
	}

	return append([]byte(nil), content...), nil
}

func (m *MemoryStorage) Put(name string, content []byte) error {
	if err := validateName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.contents[name] = append([]byte(nil), content...)
	return nil
}

func (m *MemoryStorage) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.contents[name]; !exists {
		return fmt.Errorf("%w: %s", ErrContentNotFound, name)
	}

	delete(m.contents, name)
	return nil
}

func (m *MemoryStorage) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.contents))
	for name := range m.contents {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// validateName rejects names that could escape the content directory.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
