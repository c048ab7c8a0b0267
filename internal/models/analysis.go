package models

import "time"

// Decision is the reviewer's (or AI-suggested) resolution for one gloss.
type Decision string

const (
	DecisionRechazar       Decision = "rechazar"
	DecisionAceptar        Decision = "aceptar"
	DecisionAceptarParcial Decision = "aceptar_parcial"
)

// Valid reports whether d is one of the three known decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionRechazar, DecisionAceptar, DecisionAceptarParcial:
		return true
	}
	return false
}

// GlossAnalysis is the pertinence analysis for one disputed service
// line. It is keyed externally by (factura, codigoDetalle), overwritten
// on re-analysis and never deleted automatically.
type GlossAnalysis struct {
	CodigoServicio      string   `json:"codigoServicio"`
	NombreServicio      string   `json:"nombreServicio"`
	ValorServicio       float64  `json:"valorServicio"`
	ValorGlosa          float64  `json:"valorGlosa"`
	Comentario          string   `json:"comentario"`
	CodigoConcepto      string   `json:"codigoConcepto"`
	CodigoResponsable   string   `json:"codigoResponsable"`
	AnalisisPertinencia string   `json:"analisisPertinencia"`
	Decision            Decision `json:"decision"`
	Argumentacion       string   `json:"argumentacion"`
	ValorAceptado       *float64 `json:"valorAceptado,omitempty"`
	UpdatedAt           time.Time `json:"updatedAt,omitempty"`
}

// ResponseData is the outcome of generating a response letter for an
// invoice: the letter itself plus the value rollup by decision.
type ResponseData struct {
	Factura           string          `json:"factura"`
	ValorTotalGlosado float64         `json:"valorTotalGlosado"`
	ValorAceptado     float64         `json:"valorAceptado"`
	ValorRechazado    float64         `json:"valorRechazado"`
	Glosas            []GlossAnalysis `json:"glosas"`
	CartaFinal        string          `json:"cartaFinal"`
}

// RollupValues computes the accepted and rejected totals over a set of
// analyses. Partially accepted glosses count their override value as
// accepted when present.
func RollupValues(glosas []GlossAnalysis) (aceptado, rechazado float64) {
	for _, g := range glosas {
		switch g.Decision {
		case DecisionAceptar:
			aceptado += g.ValorGlosa
		case DecisionRechazar:
			rechazado += g.ValorGlosa
		case DecisionAceptarParcial:
			if g.ValorAceptado != nil {
				aceptado += *g.ValorAceptado
				rechazado += g.ValorGlosa - *g.ValorAceptado
			}
		}
	}
	return aceptado, rechazado
}
