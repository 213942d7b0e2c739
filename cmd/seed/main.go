// seed carga reportes de demostración en la base de datos para probar el
// dashboard y el calendario sin capturar formularios a mano.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que el API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/infrastructure/postgres"
	"github.com/cristhlr/ServiTrack-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewReportRepository(pool)
	now := time.Now().UTC()

	demos := []*entity.Report{
		{
			FormType:      entity.FormMantenimiento,
			Status:        entity.StatusCompletado,
			Equipo:        "CAT 966H",
			Ubicacion:     "Obra Norte - Medellín",
			Tecnico:       "mcastro@servitrack.co",
			FechaServicio: now.AddDate(0, 0, -6),
			Payload: entity.MantenimientoPayload{
				TipoMantenimiento:   "preventivo",
				Horometro:           decimal.NewFromInt(2450),
				TrabajosRealizados:  []string{"Cambio de aceite motor", "Filtros de aire y combustible"},
				RepuestosUtilizados: []string{"Filtro 1R-0750", "Aceite 15W-40 x 20L"},
			},
		},
		{
			FormType:      entity.FormInspeccion,
			Status:        entity.StatusPendiente,
			Equipo:        "Komatsu PC200-8",
			Ubicacion:     "Cantera El Cairo",
			Tecnico:       "mcastro@servitrack.co",
			FechaServicio: now.AddDate(0, 0, 2),
			Payload: entity.InspeccionPayload{
				Horometro:        decimal.NewFromInt(5120),
				NivelCombustible: "3/4",
				Checklist: []entity.ChecklistItem{
					{Item: "Nivel de aceite hidráulico", Estado: "ok"},
					{Item: "Estado de orugas", Estado: "atencion", Nota: "desgaste en zapatas laterales"},
					{Item: "Fugas visibles", Estado: "ok"},
				},
			},
		},
		{
			FormType:      entity.FormOrdenTrabajo,
			Status:        entity.StatusEsperandoRepuestos,
			Equipo:        "JCB 3CX",
			Ubicacion:     "Vía Pacífico km 45",
			Tecnico:       "mcastro@servitrack.co",
			FechaServicio: now.AddDate(0, 0, -1),
			CostoTotal:    decimal.NewFromInt(5300000),
			Payload: entity.OrdenTrabajoPayload{
				DescripcionTrabajo: "Reemplazo del cilindro de levante del brazo frontal",
				Prioridad:          "alta",
				HorasEstimadas:     decimal.NewFromInt(16),
				CostoManoObra:      decimal.NewFromInt(1800000),
				CostoRepuestos:     decimal.NewFromInt(3500000),
			},
		},
		{
			FormType:      entity.FormReparacion,
			Status:        entity.StatusEnProgreso,
			Equipo:        "Volvo L120F",
			Ubicacion:     "Puerto Seco - Buenaventura",
			Tecnico:       "mcastro@servitrack.co",
			FechaServicio: now,
			Payload: entity.ReparacionPayload{
				FallaReportada: "Pérdida de fuerza en el sistema hidráulico",
				Diagnostico:    "Bomba principal con presión por debajo de especificación",
				HorasParada:    decimal.NewFromInt(36),
			},
		},
	}

	for _, r := range demos {
		r.ID = uuid.New().String()
		r.CreatedAt = now
		r.UpdatedAt = now
		if err := repo.Create(ctx, r); err != nil {
			fmt.Fprintf(os.Stderr, "insertar %s (%s): %v\n", r.FormType, r.Equipo, err)
			os.Exit(1)
		}
		fmt.Printf("creado %s %s [%s]\n", r.FormType, r.ID, r.Status)
	}

	fmt.Printf("%d reportes de demostración creados\n", len(demos))
}
