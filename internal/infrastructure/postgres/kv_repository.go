package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
)

var _ repository.KVStore = (*KVRepo)(nil)

// KVRepo implementación del puerto KVStore sobre la tabla app_state
// (clave texto, valor JSONB). Respaldo del directorio de sesión, el
// marcador de sesión activa y el timer de trabajo.
type KVRepo struct {
	q Querier
}

// NewKVRepository construye el adaptador. Pasar pool o tx (Querier).
func NewKVRepository(q Querier) *KVRepo {
	return &KVRepo{q: q}
}

// Get devuelve (nil, nil) si la clave no existe.
func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.q.QueryRow(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get app_state: %w", err)
	}
	return value, nil
}

// Set inserta o reemplaza el valor de la clave.
func (r *KVRepo) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set app_state: %w", err)
	}
	return nil
}

// Remove elimina la clave; borrar una clave inexistente no es error.
func (r *KVRepo) Remove(ctx context.Context, key string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM app_state WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove app_state: %w", err)
	}
	return nil
}
