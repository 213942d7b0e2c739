// Package session implementa el almacén de sesión y perfiles: la fuente
// única de verdad sobre "quién actúa ahora" y el directorio de usuarios
// conocidos, sobreviviendo recargas a través del puerto KVStore.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
	"github.com/cristhlr/ServiTrack-api/pkg/logger"
)

// Claves del almacén clave-valor.
const (
	keyDirectory   = "session:directory"
	keyActiveEmail = "session:active_email"
)

// DefaultAdminEmail perfil administrador designado: fallback de login y
// perfil activo tras logout.
const DefaultAdminEmail = "admin@servitrack.co"

// defaultDirectory perfiles compilados que existen siempre, aunque el
// almacén esté vacío o corrupto. Los usuarios creados en runtime se suman
// pero nunca eliminan un perfil por defecto.
func defaultDirectory() map[string]entity.Profile {
	profiles := []entity.Profile{
		{Email: DefaultAdminEmail, Name: "Carlos Mendoza", Phone: "+57 310 555 0101", Avatar: entity.DefaultAvatar, Role: entity.RoleAdmin},
		{Email: "rlozano@servitrack.co", Name: "Rosa Lozano", Phone: "+57 310 555 0102", Avatar: entity.DefaultAvatar, Role: entity.RoleSuperuser},
		{Email: "jquintero@servitrack.co", Name: "Jaime Quintero", Phone: "+57 310 555 0103", Avatar: entity.DefaultAvatar, Role: entity.RoleSupervisor},
		{Email: "mcastro@servitrack.co", Name: "Marta Castro", Phone: "+57 310 555 0104", Avatar: entity.DefaultAvatar, Role: entity.RoleTechnician},
	}
	dir := make(map[string]entity.Profile, len(profiles))
	for _, p := range profiles {
		dir[p.Email] = p
	}
	return dir
}

// Service almacén de sesión/perfiles como objeto de servicio inyectable.
// El constructor completa el protocolo de inicialización antes de devolver
// la instancia; ninguna operación queda expuesta a medio cargar.
type Service struct {
	kv  repository.KVStore
	log *logger.Logger

	mu        sync.RWMutex
	directory map[string]entity.Profile
	current   entity.Profile
}

// NewService carga el directorio persistido y el marcador de sesión activa,
// fusiona con los perfiles por defecto y restaura el perfil activo.
//
// Cualquier fallo de lectura o corrupción del JSON deja el sistema con los
// perfiles compilados y sin sesión activa; nunca se propaga al caller.
func NewService(ctx context.Context, kv repository.KVStore, log *logger.Logger) *Service {
	s := &Service{kv: kv, log: log, directory: defaultDirectory()}

	raw, err := kv.Get(ctx, keyDirectory)
	if err != nil {
		log.Warn().Err(err).Msg("session: lectura del directorio persistido falló, usando defaults")
	} else if len(raw) > 0 {
		var stored map[string]entity.Profile
		if err := json.Unmarshal(raw, &stored); err != nil {
			log.Warn().Err(err).Msg("session: directorio persistido corrupto, usando defaults")
		} else {
			// Los perfiles guardados se superponen a los defaults; los
			// defaults nunca desaparecen del directorio.
			for email, p := range stored {
				if email == "" || p.Email == "" {
					continue
				}
				s.directory[email] = p
			}
		}
	}

	s.current = s.directory[DefaultAdminEmail]

	active, err := kv.Get(ctx, keyActiveEmail)
	if err != nil {
		log.Warn().Err(err).Msg("session: lectura del marcador de sesión falló")
		return s
	}
	if len(active) > 0 {
		var email string
		if err := json.Unmarshal(active, &email); err != nil {
			log.Warn().Err(err).Msg("session: marcador de sesión corrupto, ignorado")
		} else if p, ok := s.directory[email]; ok {
			s.current = p
		}
	}
	return s
}

// Login resuelve el email en el directorio; si no existe, cae al
// administrador por defecto. Nunca falla: siempre resuelve algún perfil.
// Persiste el email resuelto como marcador de sesión activa (best-effort).
func (s *Service) Login(ctx context.Context, email string) *entity.Profile {
	s.mu.Lock()
	p, ok := s.directory[email]
	if !ok {
		p = s.directory[DefaultAdminEmail]
	}
	s.current = p
	s.mu.Unlock()

	// El almacén guarda documentos JSON; el email viaja como string JSON.
	marker, _ := json.Marshal(p.Email)
	if err := s.kv.Set(ctx, keyActiveEmail, marker); err != nil {
		s.log.Warn().Err(err).Str("email", p.Email).Msg("session: no se pudo persistir la sesión activa")
	}
	out := p
	return &out
}

// Logout restablece el perfil activo al administrador por defecto y borra
// el marcador de sesión persistido.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = s.directory[DefaultAdminEmail]
	s.mu.Unlock()

	if err := s.kv.Remove(ctx, keyActiveEmail); err != nil {
		s.log.Warn().Err(err).Msg("session: no se pudo borrar el marcador de sesión")
	}
}

// CreateUser agrega un perfil nuevo al directorio y lo persiste de
// inmediato. Falla con domain.ErrDuplicateUser si el email ya existe; un
// fallo de persistencia revierte el alta en memoria y se escala al caller
// porque la durabilidad de la cuenta no quedó garantizada.
func (s *Service) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*entity.Profile, error) {
	if in.Email == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: email y name son requeridos", domain.ErrInvalidInput)
	}
	if _, ok := entity.RolesValidos[in.Role]; !ok {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, in.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.directory[in.Email]; exists {
		return nil, domain.ErrDuplicateUser
	}
	p := entity.Profile{
		Email:  in.Email,
		Name:   in.Name,
		Phone:  in.Phone,
		Avatar: entity.DefaultAvatar,
		Role:   in.Role,
	}
	s.directory[in.Email] = p

	if err := s.persistDirectoryLocked(ctx); err != nil {
		delete(s.directory, in.Email)
		s.log.Error().Err(err).Str("email", in.Email).Msg("session: alta de usuario no durable")
		return nil, fmt.Errorf("%w: crear usuario: %v", domain.ErrPersistence, err)
	}
	out := p
	return &out, nil
}

// UpdateProfile fusiona los campos enviados sobre el registro del perfil
// actualmente activo (nunca sobre un destino arbitrario) y re-persiste el
// directorio. Si el email del perfil activo no está en el directorio, la
// operación es un no-op silencioso (rama defensiva). Un fallo de
// persistencia se registra y se traga: la actualización es best-effort.
func (s *Service) UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) *entity.Profile {
	s.mu.Lock()

	p, ok := s.directory[s.current.Email]
	if !ok {
		out := s.current
		s.mu.Unlock()
		return &out
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Avatar != nil {
		p.Avatar = *in.Avatar
	}
	s.directory[p.Email] = p
	s.current = p
	err := s.persistDirectoryLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Str("email", p.Email).Msg("session: actualización de perfil no persistida")
	}
	out := p
	return &out
}

// Current devuelve el perfil activo.
func (s *Service) Current() *entity.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.current
	return &out
}

// Get busca un perfil por email; (nil, false) si no existe.
func (s *Service) Get(email string) (*entity.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.directory[email]
	if !ok {
		return nil, false
	}
	out := p
	return &out, true
}

// Directory devuelve todos los perfiles ordenados por email.
func (s *Service) Directory() []*entity.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.Profile, 0, len(s.directory))
	for _, p := range s.directory {
		out := p
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return list
}

// persistDirectoryLocked serializa y guarda el directorio completo.
// Requiere s.mu tomado por el caller.
func (s *Service) persistDirectoryLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.directory)
	if err != nil {
		return fmt.Errorf("serializar directorio: %w", err)
	}
	if err := s.kv.Set(ctx, keyDirectory, raw); err != nil {
		return fmt.Errorf("guardar directorio: %w", err)
	}
	return nil
}
