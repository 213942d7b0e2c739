package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de formulario soportados (discriminador del Report).
const (
	FormMantenimiento = "mantenimiento"
	FormInspeccion    = "inspeccion"
	FormOrdenTrabajo  = "orden_trabajo"
	FormReparacion    = "reparacion"
)

// Estados del flujo de trabajo de un reporte.
const (
	StatusPendiente          = "Pendiente"
	StatusEnProgreso         = "En Progreso"
	StatusEsperandoRepuestos = "Esperando Repuestos"
	StatusCompletado         = "Completado"
	StatusCancelado          = "Cancelado"
)

var (
	FormTypesValidos = map[string]struct{}{
		FormMantenimiento: {},
		FormInspeccion:    {},
		FormOrdenTrabajo:  {},
		FormReparacion:    {},
	}
	EstadosValidos = map[string]struct{}{
		StatusPendiente:          {},
		StatusEnProgreso:         {},
		StatusEsperandoRepuestos: {},
		StatusCompletado:         {},
		StatusCancelado:          {},
	}
)

// AllStatuses lista los estados en el orden que los muestra el dashboard.
func AllStatuses() []string {
	return []string{
		StatusPendiente,
		StatusEnProgreso,
		StatusEsperandoRepuestos,
		StatusCompletado,
		StatusCancelado,
	}
}

// ReportPayload es la unión etiquetada de los cuerpos por tipo de formulario.
// Cada variante conoce su propio discriminador.
type ReportPayload interface {
	FormType() string
}

// ChecklistItem punto de verificación de una inspección.
type ChecklistItem struct {
	Item   string `json:"item"`
	Estado string `json:"estado"` // ok | atencion | critico
	Nota   string `json:"nota,omitempty"`
}

// MantenimientoPayload formulario de mantenimiento preventivo/correctivo.
type MantenimientoPayload struct {
	TipoMantenimiento   string          `json:"tipo_mantenimiento"` // preventivo | correctivo
	Horometro           decimal.Decimal `json:"horometro"`          // lectura de horas del motor
	TrabajosRealizados  []string        `json:"trabajos_realizados"`
	RepuestosUtilizados []string        `json:"repuestos_utilizados,omitempty"`
	Observaciones       string          `json:"observaciones,omitempty"`
}

func (MantenimientoPayload) FormType() string { return FormMantenimiento }

// InspeccionPayload formulario de inspección con checklist.
type InspeccionPayload struct {
	Checklist        []ChecklistItem `json:"checklist"`
	NivelCombustible string          `json:"nivel_combustible,omitempty"`
	Horometro        decimal.Decimal `json:"horometro"`
	Observaciones    string          `json:"observaciones,omitempty"`
}

func (InspeccionPayload) FormType() string { return FormInspeccion }

// OrdenTrabajoPayload orden de trabajo con estimación de costos.
type OrdenTrabajoPayload struct {
	DescripcionTrabajo string          `json:"descripcion_trabajo"`
	Prioridad          string          `json:"prioridad"` // baja | media | alta
	HorasEstimadas     decimal.Decimal `json:"horas_estimadas"`
	CostoManoObra      decimal.Decimal `json:"costo_mano_obra"`
	CostoRepuestos     decimal.Decimal `json:"costo_repuestos"`
}

func (OrdenTrabajoPayload) FormType() string { return FormOrdenTrabajo }

// CostoTotal mano de obra + repuestos.
func (p OrdenTrabajoPayload) CostoTotal() decimal.Decimal {
	return p.CostoManoObra.Add(p.CostoRepuestos)
}

// ReparacionPayload formulario de reparación por falla.
type ReparacionPayload struct {
	FallaReportada      string          `json:"falla_reportada"`
	Diagnostico         string          `json:"diagnostico"`
	RepuestosUtilizados []string        `json:"repuestos_utilizados,omitempty"`
	HorasParada         decimal.Decimal `json:"horas_parada"` // tiempo del equipo fuera de servicio
}

func (ReparacionPayload) FormType() string { return FormReparacion }

// Report es un registro persistido de un formulario enviado, etiquetado con
// su tipo y su estado. El ID y el FormType son inmutables; el Status solo
// cambia a través del flujo de trabajo (workflow).
type Report struct {
	ID            string          `json:"id"`
	FormType      string          `json:"form_type"`
	Status        string          `json:"status"`
	Equipo        string          `json:"equipo"`    // modelo del equipo
	Ubicacion     string          `json:"ubicacion"` // obra o sede
	Tecnico       string          `json:"tecnico"`   // email del técnico que reporta
	FechaServicio time.Time       `json:"fecha_servicio"`
	CostoTotal    decimal.Decimal `json:"costo_total"` // resumen para analítica; cero si no aplica
	Payload       ReportPayload   `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Locked indica si el reporte quedó bloqueado para cambios de estado.
// Solo Completado es terminal; Cancelado no bloquea.
func (r *Report) Locked() bool {
	return r.Status == StatusCompletado
}

// DecodePayload deserializa un cuerpo JSON según el discriminador formType.
func DecodePayload(formType string, raw []byte) (ReportPayload, error) {
	switch formType {
	case FormMantenimiento:
		var p MantenimientoPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("payload mantenimiento: %w", err)
		}
		return p, nil
	case FormInspeccion:
		var p InspeccionPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("payload inspeccion: %w", err)
		}
		return p, nil
	case FormOrdenTrabajo:
		var p OrdenTrabajoPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("payload orden_trabajo: %w", err)
		}
		return p, nil
	case FormReparacion:
		var p ReparacionPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("payload reparacion: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("form_type desconocido: %q", formType)
}

// UnmarshalJSON decodifica el reporte resolviendo el payload por form_type.
func (r *Report) UnmarshalJSON(data []byte) error {
	type alias Report
	aux := struct {
		*alias
		Payload json.RawMessage `json:"payload"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Payload) == 0 || string(aux.Payload) == "null" {
		r.Payload = nil
		return nil
	}
	payload, err := DecodePayload(r.FormType, aux.Payload)
	if err != nil {
		return err
	}
	r.Payload = payload
	return nil
}
