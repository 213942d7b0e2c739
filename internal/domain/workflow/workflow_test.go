package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/domain/workflow"
)

func TestAuthorize_CompletadoBloqueadoParaTodosLosRoles(t *testing.T) {
	roles := []string{
		entity.RoleAdmin,
		entity.RoleSuperuser,
		entity.RoleSupervisor,
		entity.RoleTechnician,
	}
	for _, role := range roles {
		err := workflow.Authorize(role, entity.StatusCompletado, entity.StatusEnProgreso)
		assert.ErrorIs(t, err, domain.ErrReportLocked,
			"rol %s no debe poder reabrir un reporte completado", role)
	}
}

func TestAuthorize_TecnicoSoloLectura(t *testing.T) {
	err := workflow.Authorize(entity.RoleTechnician, entity.StatusPendiente, entity.StatusEnProgreso)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuthorize_RolesConPermisoPuedenTransicionar(t *testing.T) {
	cases := []struct {
		role, from, to string
	}{
		{entity.RoleAdmin, entity.StatusPendiente, entity.StatusEnProgreso},
		{entity.RoleSuperuser, entity.StatusEnProgreso, entity.StatusEsperandoRepuestos},
		{entity.RoleSupervisor, entity.StatusEsperandoRepuestos, entity.StatusCompletado},
		{entity.RoleAdmin, entity.StatusPendiente, entity.StatusCancelado},
	}
	for _, tc := range cases {
		assert.NoError(t, workflow.Authorize(tc.role, tc.from, tc.to),
			"%s: %s -> %s debe estar permitido", tc.role, tc.from, tc.to)
	}
}

// Cancelado no es terminal: un supervisor puede reactivar un reporte
// cancelado (comportamiento observado; ver nota del paquete).
func TestAuthorize_CanceladoNoEsTerminal(t *testing.T) {
	err := workflow.Authorize(entity.RoleSupervisor, entity.StatusCancelado, entity.StatusPendiente)
	assert.NoError(t, err)
}

func TestAuthorize_EstadoDestinoInvalido(t *testing.T) {
	err := workflow.Authorize(entity.RoleAdmin, entity.StatusPendiente, "Archivado")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestAuthorize_EstadoOrigenInvalido(t *testing.T) {
	err := workflow.Authorize(entity.RoleAdmin, "", entity.StatusPendiente)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestAllowedNext_ExcluyeElEstadoActual(t *testing.T) {
	next := workflow.AllowedNext(entity.RoleAdmin, entity.StatusEnProgreso)
	assert.Len(t, next, 4)
	assert.NotContains(t, next, entity.StatusEnProgreso)
	assert.Contains(t, next, entity.StatusCompletado)
	assert.Contains(t, next, entity.StatusCancelado)
}

func TestAllowedNext_VacioParaTecnicoYTerminal(t *testing.T) {
	assert.Empty(t, workflow.AllowedNext(entity.RoleTechnician, entity.StatusPendiente))
	assert.Empty(t, workflow.AllowedNext(entity.RoleAdmin, entity.StatusCompletado))
}
