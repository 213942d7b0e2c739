package dto

// LoginRequest entrada de login: solo el email; la identidad la provee el
// proveedor de autenticación externo y aquí el login siempre resuelve a
// algún perfil (fallback al administrador por defecto).
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ProfileResponse salida de un perfil del directorio.
type ProfileResponse struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

// LoginResponse perfil resuelto + token JWT para las rutas protegidas.
type LoginResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

// CreateUserRequest entrada para crear un usuario en el directorio.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
	Role  string `json:"role" validate:"required,oneof=admin superuser supervisor user-technicians"`
}

// UpdateProfileRequest campos parciales a fusionar en el perfil activo.
// El email no es actualizable (clave del directorio). Punteros para
// distinguir "no enviado" de "vaciar el campo".
type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// TimerResponse estado del timer de trabajo.
type TimerResponse struct {
	Running        bool   `json:"running"`
	StartedAt      string `json:"started_at,omitempty"` // RFC 3339
	ElapsedSeconds int64  `json:"elapsed_seconds"`
}
