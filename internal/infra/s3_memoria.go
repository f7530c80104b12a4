package infra

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// MemoriaDibujoStore is an in-process DibujoStore used by tests and local runs
// without a bucket.
type MemoriaDibujoStore struct {
	mu       sync.Mutex
	objetos  map[string][]byte
	tipos    map[string]string
	FailNext error
}

func NewMemoriaDibujoStore() *MemoriaDibujoStore {
	return &MemoriaDibujoStore{objetos: map[string][]byte{}, tipos: map[string]string{}}
}

func (m *MemoriaDibujoStore) Subir(_ context.Context, key, contentType string, body io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objetos[key] = data
	m.tipos[key] = contentType
	return nil
}

func (m *MemoriaDibujoStore) URLFirmada(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objetos[key]; !ok {
		return "", errors.New("memoria: objeto inexistente " + key)
	}
	return "memory://" + key + "?expires=" + ttl.String(), nil
}

func (m *MemoriaDibujoStore) Eliminar(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objetos, key)
	delete(m.tipos, key)
	return nil
}

// Objeto returns the stored bytes and content type for key.
func (m *MemoriaDibujoStore) Objeto(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objetos[key]
	return data, m.tipos[key], ok
}
