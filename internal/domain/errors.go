package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrReportNotFound = errors.New("reporte no encontrado")
	ErrDuplicateUser  = errors.New("el email ya está registrado en el directorio")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrReportLocked   = errors.New("el reporte está completado y bloqueado")
	ErrInvalidStatus  = errors.New("estado de reporte inválido")
	ErrPersistence    = errors.New("fallo de persistencia")
	ErrAdvisory       = errors.New("el servicio de IA no pudo procesar la solicitud")
)
