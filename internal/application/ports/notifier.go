package ports

import "context"

// StatusChangeEvent evento publicado tras un cambio de estado exitoso.
type StatusChangeEvent struct {
	ReportID   string `json:"report_id"`
	FormType   string `json:"form_type"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Actor      string `json:"actor"` // email del usuario que ejecutó el cambio
}

// StatusNotifier puerto de salida para notificar cambios de estado a los
// clientes conectados (dashboard). La publicación es best-effort: un fallo
// se registra pero nunca revierte el cambio ya persistido.
type StatusNotifier interface {
	PublishStatusChange(ctx context.Context, ev StatusChangeEvent) error
}
