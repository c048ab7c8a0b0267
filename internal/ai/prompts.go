package ai

import (
	"fmt"
	"strings"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
)

const glossSystemPrompt = `Eres un experto auditor médico especializado en análisis de glosas de facturas del sistema de salud colombiano.
Tu tarea es analizar glosas y determinar si son procedentes o no, basándote en normatividad vigente, pertinencia clínica y evidencia médica.`

const letterSystemPrompt = `Eres un experto en redacción de respuestas formales a glosas de EPS en el sistema de salud colombiano.
Tu tarea es generar una carta formal, técnica y profesional que responda a las glosas presentadas, con argumentación clínica y normativa sólida.`

// buildGlossPrompt renders the per-gloss analysis request.
func buildGlossPrompt(service *models.ServiceLine) string {
	motivo := service.Comentario
	if motivo == "" {
		motivo = "No especificado"
	}

	return fmt.Sprintf(`Analiza la siguiente glosa:

Servicio: %s
Código: %s
Valor del servicio: %s
Valor glosado: %s
Motivo de glosa: %s
Código concepto: %s
Responsable: %s

Realiza un análisis detallado considerando:
1. Pertinencia clínica del servicio
2. Validez del motivo de glosa
3. Normatividad aplicable
4. Recomendación de aceptar, rechazar o aceptar parcialmente

Responde en formato estructurado con:
- Análisis de pertinencia
- Decisión (rechazar/aceptar/aceptar_parcial)
- Argumentación técnica y normativa
- Valor a aceptar (si es aceptación parcial)`,
		service.NombreServicio,
		service.CodigoServicio,
		models.FormatMoney(service.ValorServicio),
		models.FormatMoney(service.ValorGlosa),
		motivo,
		service.CodigoConcepto,
		service.CodigoResponsable)
}

// buildLetterPrompt renders the batch request that produces the formal
// response letter for an invoice.
func buildLetterPrompt(invoice *models.InvoiceSummary, glosas []models.GlossAnalysis) string {
	var details strings.Builder
	for i, g := range glosas {
		analisis := orPendiente(g.AnalisisPertinencia)
		decision := orPendiente(string(g.Decision))
		argumentacion := orPendiente(g.Argumentacion)

		fmt.Fprintf(&details, `
== GLOSA %d ==
Servicio: %s
Código: %s
Valor glosado: %s
Motivo: %s
Análisis: %s
Decisión: %s
Argumentación: %s
`,
			i+1, g.NombreServicio, g.CodigoServicio,
			models.FormatMoney(g.ValorGlosa), g.Comentario,
			analisis, decision, argumentacion)
	}

	return fmt.Sprintf(`Genera una carta formal de respuesta a glosas para la siguiente factura:

INFORMACIÓN DE LA FACTURA:
- Número: %s
- Saldo: %s
- Total servicios: %d
- Servicios glosados: %d
- Valor total glosado: %s

DETALLE DE GLOSAS:
%s

La carta debe incluir:
1. Encabezado formal con datos de la IPS
2. Introducción contextualizando la respuesta
3. Análisis detallado de cada glosa con argumentación técnica y normativa
4. Solicitud formal de levantamiento de glosas procedentes
5. Cierre profesional

Usa un tono formal, técnico y respetuoso. Incluye referencias normativas cuando sea pertinente.`,
		invoice.Factura,
		models.FormatMoney(invoice.SaldoFactura),
		invoice.TotalServicios,
		invoice.ServiciosGlosados,
		models.FormatMoney(invoice.ValorTotalGlosado),
		details.String())
}

func orPendiente(s string) string {
	if s == "" {
		return "Pendiente"
	}
	return s
}
