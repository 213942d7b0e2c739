// Package workflow contiene las reglas puras del flujo de estados de un
// reporte: qué rol puede cambiar el estado y hacia qué valores.
//
// Máquina de estados: los cinco estados forman un grafo casi completo.
// Completado es terminal (sin transiciones de salida para ningún rol).
// Cancelado es alcanzable desde cualquier estado no terminal pero no
// bloquea el reporte; el comportamiento observado en producción solo
// bloquea Completado y aquí se conserva esa decisión.
package workflow

import (
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
)

// terminalStatuses estados que bloquean el reporte de forma permanente.
var terminalStatuses = map[string]struct{}{
	entity.StatusCompletado: {},
}

// IsTerminal indica si el estado no admite transiciones de salida.
func IsTerminal(status string) bool {
	_, ok := terminalStatuses[status]
	return ok
}

// Authorize valida que el actor con el rol dado pueda llevar el reporte de
// from a to. Devuelve nil si la transición es válida o si es un no-op
// (to == from con permiso de escritura, que el caller trata como tal).
//
// Orden de evaluación: primero el candado del estado terminal (aplica a
// todos los roles, incluido admin), luego el rol, luego el estado destino.
func Authorize(role, from, to string) error {
	if _, ok := entity.EstadosValidos[from]; !ok {
		return domain.ErrInvalidStatus
	}
	if IsTerminal(from) {
		return domain.ErrReportLocked
	}
	if !entity.CanChangeStatus(role) {
		return domain.ErrForbidden
	}
	if _, ok := entity.EstadosValidos[to]; !ok {
		return domain.ErrInvalidStatus
	}
	return nil
}

// AllowedNext devuelve los estados destino permitidos para el rol desde el
// estado actual. Lista vacía = el badge se muestra en solo lectura (rol sin
// permiso) o bloqueado (estado terminal). No incluye el no-op.
func AllowedNext(role, from string) []string {
	if IsTerminal(from) || !entity.CanChangeStatus(role) {
		return nil
	}
	if _, ok := entity.EstadosValidos[from]; !ok {
		return nil
	}
	var next []string
	for _, s := range entity.AllStatuses() {
		if s == from {
			continue
		}
		next = append(next, s)
	}
	return next
}
