package repository

import "context"

// KVStore puerto mínimo de persistencia clave-valor para el estado de
// sesión (directorio de usuarios, marcador de sesión activa, timer de
// trabajo). La misma lógica puede apuntar a memoria, a un archivo o a una
// tabla en la base de datos sin cambiar a los consumidores.
//
// Los valores son documentos JSON válidos: el adaptador PostgreSQL los
// persiste en una columna JSONB que rechaza cualquier otro contenido, así
// que incluso un string escalar se serializa con json.Marshal.
type KVStore interface {
	// Get devuelve (nil, nil) si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
