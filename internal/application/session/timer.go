package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
	"github.com/cristhlr/ServiTrack-api/pkg/logger"
)

const keyTimerStart = "session:timer_start"

// WorkTimer timer de jornada: guarda el instante de inicio en el almacén
// clave-valor para que un timer corriendo sobreviva recargas de página.
type WorkTimer struct {
	kv  repository.KVStore
	log *logger.Logger
	now func() time.Time // inyectable en tests
}

// NewWorkTimer construye el timer sobre el mismo puerto KVStore de sesión.
func NewWorkTimer(kv repository.KVStore, log *logger.Logger) *WorkTimer {
	return &WorkTimer{kv: kv, log: log, now: time.Now}
}

// Start inicia el timer y persiste el instante de inicio. Si ya hay un
// timer corriendo devuelve su inicio original (idempotente).
func (t *WorkTimer) Start(ctx context.Context) (time.Time, error) {
	if started, ok, err := t.read(ctx); err == nil && ok {
		return started, nil
	}
	start := t.now().UTC()
	// El almacén guarda documentos JSON; el timestamp viaja como string JSON.
	raw, _ := json.Marshal(start.Format(time.RFC3339Nano))
	if err := t.kv.Set(ctx, keyTimerStart, raw); err != nil {
		return time.Time{}, fmt.Errorf("%w: iniciar timer: %v", domain.ErrPersistence, err)
	}
	return start, nil
}

// Status indica si hay un timer corriendo y el tiempo transcurrido.
func (t *WorkTimer) Status(ctx context.Context) (running bool, startedAt time.Time, elapsed time.Duration, err error) {
	started, ok, err := t.read(ctx)
	if err != nil {
		return false, time.Time{}, 0, err
	}
	if !ok {
		return false, time.Time{}, 0, nil
	}
	return true, started, t.now().Sub(started), nil
}

// Stop detiene el timer, borra el instante persistido y devuelve el tiempo
// transcurrido. Si no había timer corriendo devuelve cero sin error.
func (t *WorkTimer) Stop(ctx context.Context) (time.Duration, error) {
	started, ok, err := t.read(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	elapsed := t.now().Sub(started)
	if err := t.kv.Remove(ctx, keyTimerStart); err != nil {
		return 0, fmt.Errorf("%w: detener timer: %v", domain.ErrPersistence, err)
	}
	return elapsed, nil
}

// read devuelve el inicio persistido; un valor corrupto se descarta y se
// registra, tratándose como timer detenido.
func (t *WorkTimer) read(ctx context.Context) (time.Time, bool, error) {
	raw, err := t.kv.Get(ctx, keyTimerStart)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: leer timer: %v", domain.ErrPersistence, err)
	}
	if len(raw) == 0 {
		return time.Time{}, false, nil
	}
	var stamp string
	if err := json.Unmarshal(raw, &stamp); err != nil {
		t.log.Warn().Err(err).Msg("session: timestamp de timer corrupto, descartado")
		_ = t.kv.Remove(ctx, keyTimerStart)
		return time.Time{}, false, nil
	}
	started, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		t.log.Warn().Err(err).Msg("session: timestamp de timer corrupto, descartado")
		_ = t.kv.Remove(ctx, keyTimerStart)
		return time.Time{}, false, nil
	}
	return started, true, nil
}
