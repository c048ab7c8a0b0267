package parser

import (
	"strings"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
)

// Row is one raw spreadsheet row keyed by column header.
type Row map[string]any

// Column headers of the glosa detail file. The names (including the
// space in "Saldo Factura" and the dots in "C.C") come from the file
// format the EPS delivers and must match exactly.
const (
	ColCodigoDetalle     = "CodigoDetalle"
	ColCodigoQX          = "CodigoQX"
	ColFactura           = "Factura"
	ColSaldoFactura      = "Saldo Factura"
	ColCC                = "C.C"
	ColCodigoServicio    = "CodigoServicio"
	ColNombreServicio    = "NombreServicio"
	ColValorServicio     = "ValorServicio"
	ColValorUnitario     = "ValorUnitario"
	ColCantidad          = "Cantidad"
	ColValor             = "Valor"
	ColValorPaciente     = "ValorPaciente"
	ColValorEntidad      = "ValorEntidad"
	ColValorGlosa        = "ValorGlosa"
	ColCodigoConcepto    = "CodigoConcepto"
	ColCodigoResponsable = "CodigoResponsable"
	ColComentario        = "Comentario"
)

// headerMarker prefixes the per-invoice banner rows some exports repeat
// between invoice blocks. Rows starting with it carry no service data.
const headerMarker = "Factura:"

// MapRow converts one raw row into a service line. It returns ok=false
// for non-data rows: rows with no invoice number and the repeated
// "Factura:" banner rows.
func MapRow(row Row) (models.ServiceLine, bool) {
	factura := TextValue(row[ColFactura])
	if factura == "" || strings.HasPrefix(factura, headerMarker) {
		return models.ServiceLine{}, false
	}

	line := models.ServiceLine{
		CodigoDetalle:     TextValue(row[ColCodigoDetalle]),
		CodigoQX:          TextValue(row[ColCodigoQX]),
		Factura:           factura,
		SaldoFactura:      MoneyValue(row[ColSaldoFactura]),
		CC:                TextValue(row[ColCC]),
		CodigoServicio:    TextValue(row[ColCodigoServicio]),
		NombreServicio:    TextValue(row[ColNombreServicio]),
		ValorServicio:     MoneyValue(row[ColValorServicio]),
		ValorUnitario:     MoneyValue(row[ColValorUnitario]),
		Cantidad:          IntValue(row[ColCantidad]),
		Valor:             MoneyValue(row[ColValor]),
		ValorPaciente:     MoneyValue(row[ColValorPaciente]),
		ValorEntidad:      MoneyValue(row[ColValorEntidad]),
		ValorGlosa:        MoneyValue(row[ColValorGlosa]),
		CodigoConcepto:    TextValue(row[ColCodigoConcepto]),
		CodigoResponsable: TextValue(row[ColCodigoResponsable]),
		Comentario:        TextValue(row[ColComentario]),
	}

	return line, true
}
