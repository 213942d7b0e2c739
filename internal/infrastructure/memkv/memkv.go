// Package memkv implementa el puerto KVStore en memoria. Se usa en tests y
// en desarrollo local sin base de datos; el estado no sobrevive al proceso.
package memkv

import (
	"context"
	"sync"

	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
)

var _ repository.KVStore = (*Store)(nil)

// Store mapa protegido por mutex.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New construye un almacén vacío.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Seed fija una clave directamente (para tests).
func (s *Store) Seed(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
}

// Get devuelve (nil, nil) si la clave no existe.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Set guarda una copia del valor.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Remove borra la clave; borrar una clave inexistente no es error.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
