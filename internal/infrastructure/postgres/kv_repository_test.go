package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/infrastructure/postgres"
)

// La tabla app_state tiene la columna value como JSONB: todo valor que la
// capa de sesión escribe debe ser un documento JSON válido o el INSERT
// falla en el servidor. Estos tests fijan las formas reales que viajan por
// el puerto: el directorio de perfiles, el marcador de sesión activa y el
// inicio del timer.
func sessionValueShapes(t *testing.T) map[string][]byte {
	t.Helper()

	directory, err := json.Marshal(map[string]entity.Profile{
		"admin@servitrack.co": {
			Email: "admin@servitrack.co", Name: "Carlos Mendoza",
			Avatar: entity.DefaultAvatar, Role: entity.RoleAdmin,
		},
	})
	require.NoError(t, err)

	marker, err := json.Marshal("mcastro@servitrack.co")
	require.NoError(t, err)

	stamp, err := json.Marshal(time.Date(2026, 8, 28, 7, 30, 0, 0, time.UTC).Format(time.RFC3339Nano))
	require.NoError(t, err)

	return map[string][]byte{
		"session:directory":    directory,
		"session:active_email": marker,
		"session:timer_start":  stamp,
	}
}

func TestKVRepo_SetAceptaLasFormasDeValorDeSesion(t *testing.T) {
	for key, value := range sessionValueShapes(t) {
		t.Run(key, func(t *testing.T) {
			require.True(t, json.Valid(value), "la columna JSONB rechaza valores no JSON")

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectExec(`INSERT INTO app_state`).
				WithArgs(key, value).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))

			repo := postgres.NewKVRepository(mock)
			require.NoError(t, repo.Set(context.Background(), key, value))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestKVRepo_GetDevuelveLoEscrito(t *testing.T) {
	for key, value := range sessionValueShapes(t) {
		t.Run(key, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery(`SELECT value FROM app_state`).
				WithArgs(key).
				WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(value))

			repo := postgres.NewKVRepository(mock)
			got, err := repo.Get(context.Background(), key)
			require.NoError(t, err)
			assert.Equal(t, value, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestKVRepo_GetClaveInexistente(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT value FROM app_state`).
		WithArgs("session:timer_start").
		WillReturnError(pgx.ErrNoRows)

	repo := postgres.NewKVRepository(mock)
	got, err := repo.Get(context.Background(), "session:timer_start")
	require.NoError(t, err, "clave ausente no es error")
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepo_RemoveClaveInexistenteNoEsError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM app_state`).
		WithArgs("session:active_email").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := postgres.NewKVRepository(mock)
	assert.NoError(t, repo.Remove(context.Background(), "session:active_email"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
