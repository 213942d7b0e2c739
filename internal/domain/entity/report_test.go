package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
)

func TestReport_UnmarshalJSON_ResuelvePayloadPorFormType(t *testing.T) {
	raw := `{
		"id": "r1",
		"form_type": "orden_trabajo",
		"status": "Pendiente",
		"equipo": "JCB 3CX",
		"payload": {
			"descripcion_trabajo": "Cambio de cilindro",
			"prioridad": "alta",
			"horas_estimadas": "16",
			"costo_mano_obra": "1800000",
			"costo_repuestos": "3500000"
		}
	}`
	var r entity.Report
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	payload, ok := r.Payload.(entity.OrdenTrabajoPayload)
	require.True(t, ok, "el payload debe decodificarse al tipo concreto del discriminador")
	assert.Equal(t, "alta", payload.Prioridad)
	assert.Equal(t, "5300000", payload.CostoTotal().String())
}

func TestReport_UnmarshalJSON_FormTypeDesconocido(t *testing.T) {
	raw := `{"id": "r2", "form_type": "pintura", "payload": {"x": 1}}`
	var r entity.Report
	assert.Error(t, json.Unmarshal([]byte(raw), &r))
}

func TestReport_UnmarshalJSON_PayloadNulo(t *testing.T) {
	raw := `{"id": "r3", "form_type": "inspeccion", "payload": null}`
	var r entity.Report
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Nil(t, r.Payload)
}

func TestReport_Locked_SoloCompletado(t *testing.T) {
	for _, status := range entity.AllStatuses() {
		r := entity.Report{Status: status}
		assert.Equal(t, status == entity.StatusCompletado, r.Locked(), status)
	}
}
