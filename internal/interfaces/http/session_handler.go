package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/application/session"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/pkg/config"
	"github.com/cristhlr/ServiTrack-api/pkg/jwt"
)

// SessionHandler maneja login/logout, el perfil activo y el directorio de
// usuarios.
type SessionHandler struct {
	svc    *session.Service
	jwtCfg config.JWTConfig
}

// NewSessionHandler construye el handler.
func NewSessionHandler(svc *session.Service, jwtCfg config.JWTConfig) *SessionHandler {
	return &SessionHandler{svc: svc, jwtCfg: jwtCfg}
}

// Login godoc
// @Summary      Iniciar sesión por email
// @Description  Resuelve el perfil del directorio; un email desconocido cae
//               al administrador por defecto. Nunca rechaza el login.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email es requerido"})
	}

	profile := h.svc.Login(c.Context(), in.Email)
	token, err := jwt.Generate(h.jwtCfg.Secret, profile.Email, profile.Role, h.jwtCfg.Issuer, h.jwtCfg.Expiration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.LoginResponse{Token: token, User: toProfileResponse(profile)})
}

// Logout godoc
// @Summary      Cerrar la sesión activa
// @Tags         session
// @Security     Bearer
// @Success      204
// @Router       /api/auth/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.svc.Logout(c.Context())
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Perfil de la sesión activa
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Router       /api/profile/me [get]
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	return c.JSON(toProfileResponse(h.svc.Current()))
}

// UpdateProfile godoc
// @Summary      Actualizar el perfil activo (fusión parcial)
// @Tags         session
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "campos a fusionar"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile/me [patch]
func (h *SessionHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return c.JSON(toProfileResponse(h.svc.UpdateProfile(c.Context(), in)))
}

// ListUsers godoc
// @Summary      Listar el directorio de usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProfileResponse
// @Router       /api/users [get]
func (h *SessionHandler) ListUsers(c *fiber.Ctx) error {
	directory := h.svc.Directory()
	out := make([]dto.ProfileResponse, 0, len(directory))
	for _, p := range directory {
		out = append(out, toProfileResponse(p))
	}
	return c.JSON(out)
}

// CreateUser godoc
// @Summary      Crear un usuario en el directorio (solo admin/superuser)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "datos del usuario"
// @Success      201   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *SessionHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	profile, err := h.svc.CreateUser(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUser):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el email ya existe en el directorio"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrPersistence):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "no se pudo guardar el directorio; el usuario no fue creado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toProfileResponse(profile))
}

func toProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		Email:  p.Email,
		Name:   p.Name,
		Phone:  p.Phone,
		Avatar: p.Avatar,
		Role:   p.Role,
	}
}
