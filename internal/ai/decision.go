package ai

import (
	"strings"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
)

// InferDecision extracts a decision from the free-text analysis the
// gateway returns. It is a best-effort heuristic over Spanish keywords.
//
// Rejection tokens are checked first: an analysis mentioning both
// "rechazar" and "aceptar" resolves to rechazar, then "aceptar parcial"
// wins over plain "aceptar". Text matching nothing defaults to
// rechazar, the reviewer's conservative starting point.
func InferDecision(analysis string) models.Decision {
	text := strings.ToLower(analysis)

	switch {
	case strings.Contains(text, "rechazar") || strings.Contains(text, "improcedente"):
		return models.DecisionRechazar
	case strings.Contains(text, "aceptar parcial"):
		return models.DecisionAceptarParcial
	case strings.Contains(text, "aceptar") || strings.Contains(text, "procedente"):
		return models.DecisionAceptar
	default:
		return models.DecisionRechazar
	}
}
