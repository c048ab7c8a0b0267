package export

import (
	"bytes"
	"fmt"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Servicios Glosados"

// Column order matches the source file format so the workbook can be
// re-ingested by the same automation that produced the original.
var headers = []string{
	"CodigoDetalle", "CodigoQX", "Factura", "Saldo Factura", "C.C",
	"CodigoServicio", "NombreServicio", "ValorServicio", "ValorUnitario",
	"Cantidad", "Valor", "ValorPaciente", "ValorEntidad", "ValorGlosa",
	"CodigoConcepto", "CodigoResponsable", "Comentario",
}

// Builder produces XLSX workbooks of an invoice's disputed lines.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a new workbook builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// DisputedLinesWorkbook renders the invoice's disputed service lines
// into an XLSX workbook and returns its bytes.
func (b *Builder) DisputedLinesWorkbook(invoice *models.InvoiceSummary) ([]byte, error) {
	glossed := invoice.GlossedServices()
	if len(glossed) == 0 {
		return nil, fmt.Errorf("invoice %s has no disputed services", invoice.Factura)
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetList()[0]
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, s := range glossed {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		row := []any{
			s.CodigoDetalle, s.CodigoQX, s.Factura, s.SaldoFactura, s.CC,
			s.CodigoServicio, s.NombreServicio, s.ValorServicio, s.ValorUnitario,
			s.Cantidad, s.Valor, s.ValorPaciente, s.ValorEntidad, s.ValorGlosa,
			s.CodigoConcepto, s.CodigoResponsable, s.Comentario,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	b.logger.Info("Disputed lines workbook built",
		zap.String("factura", invoice.Factura),
		zap.Int("rows", len(glossed)))
	return buf.Bytes(), nil
}
