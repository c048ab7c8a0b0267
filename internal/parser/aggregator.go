package parser

import (
	"time"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
)

// Aggregate groups raw spreadsheet rows into invoice summaries. Rows
// are processed in order; summaries come back in first-appearance order
// of their invoice number. Non-data rows are skipped silently.
//
// The invoice balance is taken from the first line seen for each
// invoice. Exports that repeat a header block per invoice carry the
// balance on every line, so later rows must not overwrite it; this
// keeps re-uploads of such files idempotent.
//
// Aggregate is pure: it performs no I/O and is safe to call
// concurrently.
func Aggregate(rows []Row) []*models.InvoiceSummary {
	byFactura := make(map[string]*models.InvoiceSummary)
	var order []string
	now := time.Now()

	for _, row := range rows {
		line, ok := MapRow(row)
		if !ok {
			continue
		}

		inv, seen := byFactura[line.Factura]
		if !seen {
			inv = &models.InvoiceSummary{
				Factura:      line.Factura,
				SaldoFactura: line.SaldoFactura,
				Servicios:    []models.ServiceLine{},
				Fuente:       models.OriginManual,
				FechaCarga:   now,
			}
			byFactura[line.Factura] = inv
			order = append(order, line.Factura)
		}

		inv.Servicios = append(inv.Servicios, line)
		inv.TotalServicios++
		if line.IsGlosado() {
			inv.ServiciosGlosados++
			inv.ValorTotalGlosado += line.ValorGlosa
		}
	}

	summaries := make([]*models.InvoiceSummary, 0, len(order))
	for _, factura := range order {
		summaries = append(summaries, byFactura[factura])
	}
	return summaries
}
