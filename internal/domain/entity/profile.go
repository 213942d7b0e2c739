package entity

// Roles válidos para Profile.
const (
	RoleAdmin      = "admin"
	RoleSuperuser  = "superuser"
	RoleSupervisor = "supervisor"
	RoleTechnician = "user-technicians"
)

// RolesValidos conjunto de roles aceptados al crear o actualizar un perfil.
var RolesValidos = map[string]struct{}{
	RoleAdmin:      {},
	RoleSuperuser:  {},
	RoleSupervisor: {},
	RoleTechnician: {},
}

// DefaultAvatar se asigna a los perfiles creados sin avatar propio.
const DefaultAvatar = "https://placehold.co/96x96.png"

// Profile representa un usuario de la aplicación: identidad, contacto y rol.
// El email es la clave única del directorio y es inmutable una vez creado.
type Profile struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"` // admin | superuser | supervisor | user-technicians
}

// CanChangeStatus indica si el rol puede mutar el estado de un reporte.
// user-technicians solo ve el estado como badge de lectura.
func CanChangeStatus(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperuser, RoleSupervisor:
		return true
	}
	return false
}
