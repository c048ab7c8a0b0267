package service

import (
	"context"
	"errors"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"github.com/JuanValentinPerdomo/glosas/internal/webhook"
)

// Sentinel errors surfaced to the HTTP layer.
var (
	ErrInvoiceNotFound = errors.New("factura no encontrada")
	ErrServiceNotFound = errors.New("servicio no encontrado")
	ErrNoAnalyses      = errors.New("no hay glosas analizadas para esta factura")
	ErrInvalidDecision = errors.New("decisión inválida")
)

// InvoiceStore is the persistence surface for invoice summaries.
type InvoiceStore interface {
	MergeBatch(invoices []*models.InvoiceSummary) error
	GetByFactura(factura string) (*models.InvoiceSummary, error)
	List() ([]*models.InvoiceSummary, error)
	Stats() (*models.InvoiceStats, error)
}

// AnalysisStore is the persistence surface for gloss analyses.
type AnalysisStore interface {
	Save(factura, codigoDetalle string, analysis *models.GlossAnalysis) error
	Get(factura, codigoDetalle string) (*models.GlossAnalysis, error)
	ListByFactura(factura string) ([]models.GlossAnalysis, error)
}

// SettingsStore is the persistence surface for runtime settings.
type SettingsStore interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

// GlossAnalyst is the AI gateway surface.
type GlossAnalyst interface {
	AnalyzeGloss(ctx context.Context, service *models.ServiceLine) (string, error)
	GenerateLetter(ctx context.Context, invoice *models.InvoiceSummary, glosas []models.GlossAnalysis) (string, error)
}

// WebhookSender delivers payloads to the configured n8n webhook.
type WebhookSender interface {
	SendResponse(ctx context.Context, url string, payload webhook.ResponsePayload) error
	SendWorkbook(ctx context.Context, url, filename string, workbook []byte) error
}

// WorkbookBuilder renders invoices into XLSX workbooks.
type WorkbookBuilder interface {
	DisputedLinesWorkbook(invoice *models.InvoiceSummary) ([]byte, error)
}
