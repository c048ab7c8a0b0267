package models

import "time"

// Origin identifies how an invoice batch entered the system
type Origin string

const (
	OriginManual Origin = "manual" // uploaded through the web UI
	OriginN8N    Origin = "n8n"    // pushed by the n8n automation
)

// ServiceLine represents one billed service within an invoice, as it
// appears in the glosa detail spreadsheet. Field names mirror the
// Spanish column headers of the source file.
type ServiceLine struct {
	CodigoDetalle     string  `json:"codigoDetalle"`
	CodigoQX          string  `json:"codigoQX"`
	Factura           string  `json:"factura"`
	SaldoFactura      float64 `json:"saldoFactura"`
	CC                string  `json:"cc"`
	CodigoServicio    string  `json:"codigoServicio"`
	NombreServicio    string  `json:"nombreServicio"`
	ValorServicio     float64 `json:"valorServicio"`
	ValorUnitario     float64 `json:"valorUnitario"`
	Cantidad          int     `json:"cantidad"`
	Valor             float64 `json:"valor"`
	ValorPaciente     float64 `json:"valorPaciente"`
	ValorEntidad      float64 `json:"valorEntidad"`
	ValorGlosa        float64 `json:"valorGlosa"`
	CodigoConcepto    string  `json:"codigoConcepto"`
	CodigoResponsable string  `json:"codigoResponsable"`
	Comentario        string  `json:"comentario"`
}

// IsGlosado reports whether the line is disputed. ValorGlosa is the
// sole signal of dispute status.
func (s *ServiceLine) IsGlosado() bool {
	return s.ValorGlosa > 0
}

// InvoiceSummary aggregates all service lines sharing one invoice
// number. Servicios keeps the first-seen order of the source rows.
type InvoiceSummary struct {
	Factura            string        `json:"factura"`
	SaldoFactura       float64       `json:"saldoFactura"`
	TotalServicios     int           `json:"totalServicios"`
	ServiciosGlosados  int           `json:"serviciosGlosados"`
	ValorTotalGlosado  float64       `json:"valorTotalGlosado"`
	Servicios          []ServiceLine `json:"servicios"`
	Fuente             Origin        `json:"fuente"`
	FechaCarga         time.Time     `json:"fechaCarga"`
}

// GlossedServices returns the disputed lines of the invoice.
func (inv *InvoiceSummary) GlossedServices() []ServiceLine {
	var glossed []ServiceLine
	for _, s := range inv.Servicios {
		if s.IsGlosado() {
			glossed = append(glossed, s)
		}
	}
	return glossed
}

// FindService looks up a service line by its detail code.
func (inv *InvoiceSummary) FindService(codigoDetalle string) *ServiceLine {
	for i := range inv.Servicios {
		if inv.Servicios[i].CodigoDetalle == codigoDetalle {
			return &inv.Servicios[i]
		}
	}
	return nil
}

// InvoiceStats summarizes the whole stored collection for the dashboard.
type InvoiceStats struct {
	TotalFacturas     int     `json:"totalFacturas"`
	ServiciosGlosados int     `json:"serviciosGlosados"`
	ValorTotalGlosado float64 `json:"valorTotalGlosado"`
}
