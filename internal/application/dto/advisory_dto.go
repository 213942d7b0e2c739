package dto

// SuggestFormRequest entrada de POST /api/ai/suggest-form.
type SuggestFormRequest struct {
	Ubicacion string `json:"ubicacion" validate:"required"`
	Equipo    string `json:"equipo" validate:"required"`
}

// SuggestFormDTO salida: el tipo de formulario sugerido y el razonamiento.
type SuggestFormDTO struct {
	SuggestedForm string `json:"suggested_form"` // mantenimiento | inspeccion | orden_trabajo | reparacion
	Reasoning     string `json:"reasoning"`
}

// TroubleshootRequest entrada de POST /api/ai/troubleshoot.
type TroubleshootRequest struct {
	Equipo              string `json:"equipo" validate:"required"`
	DescripcionProblema string `json:"descripcion_problema" validate:"required"`
}

// TroubleshootDTO guía de diagnóstico devuelta por el modelo.
type TroubleshootDTO struct {
	PotentialCauses  []string `json:"potential_causes"`
	DiagnosticSteps  []string `json:"diagnostic_steps"`
	RecommendedParts []string `json:"recommended_parts"`
}
