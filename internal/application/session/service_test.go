package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/application/session"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
	"github.com/cristhlr/ServiTrack-api/internal/infrastructure/memkv"
	"github.com/cristhlr/ServiTrack-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

func newService(t *testing.T, kv repository.KVStore) *session.Service {
	t.Helper()
	return session.NewService(context.Background(), kv, testLogger())
}

// failingKV envuelve un KVStore y hace fallar las escrituras bajo demanda.
type failingKV struct {
	repository.KVStore
	failSet bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("disco lleno")
	}
	return f.KVStore.Set(ctx, key, value)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inicialización
// ──────────────────────────────────────────────────────────────────────────────

func TestNewService_AlmacenVacioUsaDefaults(t *testing.T) {
	svc := newService(t, memkv.New())

	dir := svc.Directory()
	require.NotEmpty(t, dir)
	_, ok := svc.Get(session.DefaultAdminEmail)
	assert.True(t, ok, "el administrador por defecto debe existir siempre")
	assert.Equal(t, session.DefaultAdminEmail, svc.Current().Email,
		"sin sesión persistida el perfil activo es el admin por defecto")
}

func TestNewService_DirectorioCorruptoCaeADefaultsSinError(t *testing.T) {
	kv := memkv.New()
	kv.Seed("session:directory", []byte(`{esto no es json`))
	kv.Seed("session:active_email", []byte(`"fantasma@x.com"`))

	svc := newService(t, kv) // no debe entrar en pánico ni propagar error

	assert.Equal(t, session.DefaultAdminEmail, svc.Current().Email)
	_, ok := svc.Get("fantasma@x.com")
	assert.False(t, ok)
}

func TestNewService_RestauraSesionActivaPersistida(t *testing.T) {
	kv := memkv.New()
	first := newService(t, kv)
	_, err := first.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "a@x.com", Name: "Ana", Role: entity.RoleSupervisor,
	})
	require.NoError(t, err)
	first.Login(context.Background(), "a@x.com")

	// Nueva instancia sobre el mismo almacén = recarga de página.
	second := newService(t, kv)
	assert.Equal(t, "a@x.com", second.Current().Email)
	got, ok := second.Get("a@x.com")
	require.True(t, ok, "el usuario creado debe sobrevivir la recarga")
	assert.Equal(t, entity.RoleSupervisor, got.Role)
}

func TestNewService_MarcadorNoJSONSeIgnora(t *testing.T) {
	kv := memkv.New()
	// Email crudo sin comillas: un almacén JSONB jamás lo habría aceptado.
	kv.Seed("session:active_email", []byte("mcastro@servitrack.co"))

	svc := newService(t, kv)
	assert.Equal(t, session.DefaultAdminEmail, svc.Current().Email,
		"un marcador ilegible deja la sesión en el admin por defecto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmailDesconocidoResuelveAlAdmin(t *testing.T) {
	svc := newService(t, memkv.New())
	p := svc.Login(context.Background(), "nadie@x.com")
	assert.Equal(t, session.DefaultAdminEmail, p.Email)
	assert.Equal(t, entity.RoleAdmin, p.Role)
}

func TestLogin_UsuarioCreadoResuelveASuPerfil(t *testing.T) {
	svc := newService(t, memkv.New())
	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "a@x.com", Name: "Ana", Role: entity.RoleSupervisor,
	})
	require.NoError(t, err)

	p := svc.Login(context.Background(), "a@x.com")
	assert.Equal(t, created.Email, p.Email, "debe resolver al perfil creado, no al admin")
	assert.Equal(t, entity.RoleSupervisor, p.Role)
	assert.Equal(t, "a@x.com", svc.Current().Email)
}

func TestLogin_MarcadorPersistidoEsJSON(t *testing.T) {
	kv := memkv.New()
	svc := newService(t, kv)
	svc.Login(context.Background(), session.DefaultAdminEmail)

	raw, err := kv.Get(context.Background(), "session:active_email")
	require.NoError(t, err)
	require.True(t, json.Valid(raw),
		"el valor debe ser un documento JSON válido, no bytes crudos del email")
	var email string
	require.NoError(t, json.Unmarshal(raw, &email))
	assert.Equal(t, session.DefaultAdminEmail, email)
}

func TestLogout_SeguidoDeLoginDesconocido(t *testing.T) {
	svc := newService(t, memkv.New())
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "a@x.com", Name: "Ana", Role: entity.RoleTechnician,
	})
	require.NoError(t, err)
	svc.Login(context.Background(), "a@x.com")

	svc.Logout(context.Background())
	assert.Equal(t, session.DefaultAdminEmail, svc.Current().Email)

	p := svc.Login(context.Background(), "desconocido@x.com")
	assert.Equal(t, session.DefaultAdminEmail, p.Email)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateUser
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_DuplicadoFallaYNoMutaElDirectorio(t *testing.T) {
	svc := newService(t, memkv.New())
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "a@x.com", Name: "Ana", Role: entity.RoleSupervisor,
	})
	require.NoError(t, err)
	before := len(svc.Directory())

	_, err = svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "a@x.com", Name: "Otra Ana", Role: entity.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)
	assert.Len(t, svc.Directory(), before, "el directorio no debe cambiar ante un duplicado")

	got, _ := svc.Get("a@x.com")
	assert.Equal(t, "Ana", got.Name, "el perfil original queda intacto")
}

func TestCreateUser_RolInvalido(t *testing.T) {
	svc := newService(t, memkv.New())
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "b@x.com", Name: "Beto", Role: "gerente",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateUser_AsignaAvatarPorDefecto(t *testing.T) {
	svc := newService(t, memkv.New())
	p, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "c@x.com", Name: "Cleo", Role: entity.RoleTechnician,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultAvatar, p.Avatar)
}

func TestCreateUser_FalloDePersistenciaEscalaYRevierta(t *testing.T) {
	kv := &failingKV{KVStore: memkv.New()}
	svc := newService(t, kv)
	kv.failSet = true

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "d@x.com", Name: "Dora", Role: entity.RoleSupervisor,
	})
	assert.ErrorIs(t, err, domain.ErrPersistence,
		"sin durabilidad garantizada el alta debe fallar hacia el caller")
	_, ok := svc.Get("d@x.com")
	assert.False(t, ok, "el alta fallida no debe quedar en memoria")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateProfile
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProfile_SoloMutaElPerfilActivo(t *testing.T) {
	svc := newService(t, memkv.New())
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "a@x.com", Name: "Ana", Phone: "300", Role: entity.RoleSupervisor,
	})
	require.NoError(t, err)
	svc.Login(context.Background(), "a@x.com")

	emailsBefore := emails(svc)
	nombre := "Ana María"
	updated := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Name: &nombre})

	assert.Equal(t, "Ana María", updated.Name)
	assert.Equal(t, "300", updated.Phone, "los campos no enviados se conservan")
	assert.Equal(t, "Ana María", svc.Current().Name, "el puntero al perfil activo refleja la fusión")
	assert.Equal(t, emailsBefore, emails(svc), "el conjunto de claves del directorio no cambia")
}

func TestUpdateProfile_FalloDePersistenciaSeTragaTrasLog(t *testing.T) {
	kv := &failingKV{KVStore: memkv.New()}
	svc := newService(t, kv)
	svc.Login(context.Background(), session.DefaultAdminEmail)
	kv.failSet = true

	tel := "+57 311 000 0000"
	updated := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Phone: &tel})

	// Best-effort: la fusión en memoria procede aunque el disco falle.
	assert.Equal(t, tel, updated.Phone)
	assert.Equal(t, tel, svc.Current().Phone)
}

func emails(svc *session.Service) []string {
	dir := svc.Directory()
	out := make([]string, 0, len(dir))
	for _, p := range dir {
		out = append(out, p.Email)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// WorkTimer
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkTimer_SobreviveRecargas(t *testing.T) {
	kv := memkv.New()
	first := session.NewWorkTimer(kv, testLogger())
	started, err := first.Start(context.Background())
	require.NoError(t, err)

	// Otra instancia sobre el mismo almacén = recarga con timer corriendo.
	second := session.NewWorkTimer(kv, testLogger())
	running, restored, _, err := second.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, running)
	assert.True(t, restored.Equal(started), "el inicio restaurado debe ser el original")
}

func TestWorkTimer_StartEsIdempotente(t *testing.T) {
	timer := session.NewWorkTimer(memkv.New(), testLogger())
	first, err := timer.Start(context.Background())
	require.NoError(t, err)
	again, err := timer.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, first.Equal(again), "un segundo Start no reinicia el timer")
}

func TestWorkTimer_StopBorraElEstado(t *testing.T) {
	kv := memkv.New()
	timer := session.NewWorkTimer(kv, testLogger())
	_, err := timer.Start(context.Background())
	require.NoError(t, err)

	elapsed, err := timer.Stop(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))

	running, _, _, err := timer.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, running)
}

func TestWorkTimer_InicioPersistidoEsJSON(t *testing.T) {
	kv := memkv.New()
	timer := session.NewWorkTimer(kv, testLogger())
	started, err := timer.Start(context.Background())
	require.NoError(t, err)

	raw, err := kv.Get(context.Background(), "session:timer_start")
	require.NoError(t, err)
	require.True(t, json.Valid(raw),
		"el valor debe ser un documento JSON válido, no el timestamp crudo")
	var stamp string
	require.NoError(t, json.Unmarshal(raw, &stamp))
	parsed, err := time.Parse(time.RFC3339Nano, stamp)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(started), "el JSON codifica el instante original")
}

func TestWorkTimer_TimestampCorruptoSeDescarta(t *testing.T) {
	kv := memkv.New()
	kv.Seed("session:timer_start", []byte("ayer por la tarde"))
	timer := session.NewWorkTimer(kv, testLogger())

	running, _, _, err := timer.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, running)
}
