package service

import (
	"context"
	"fmt"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"github.com/JuanValentinPerdomo/glosas/internal/repository"
	"github.com/JuanValentinPerdomo/glosas/internal/webhook"
	"go.uber.org/zap"
)

// ResponseService generates response letters and forwards results to
// the n8n automation.
type ResponseService struct {
	invoices InvoiceStore
	analyses AnalysisStore
	settings SettingsStore
	analyst  GlossAnalyst
	sender   WebhookSender
	builder  WorkbookBuilder
	logger   *zap.Logger
}

// NewResponseService creates a new response service
func NewResponseService(
	invoices InvoiceStore,
	analyses AnalysisStore,
	settings SettingsStore,
	analyst GlossAnalyst,
	sender WebhookSender,
	builder WorkbookBuilder,
	logger *zap.Logger,
) *ResponseService {
	return &ResponseService{
		invoices: invoices,
		analyses: analyses,
		settings: settings,
		analyst:  analyst,
		sender:   sender,
		builder:  builder,
		logger:   logger,
	}
}

// Generate drafts the response letter for an invoice from its saved
// analyses and computes the accepted/rejected rollup. At least one
// analysis must exist.
func (s *ResponseService) Generate(ctx context.Context, factura string) (*models.ResponseData, error) {
	invoice, err := s.findInvoice(factura)
	if err != nil {
		return nil, err
	}

	glosas, err := s.analyses.ListByFactura(factura)
	if err != nil {
		return nil, err
	}
	if len(glosas) == 0 {
		return nil, ErrNoAnalyses
	}

	letter, err := s.analyst.GenerateLetter(ctx, invoice, glosas)
	if err != nil {
		return nil, err
	}

	aceptado, rechazado := models.RollupValues(glosas)

	s.logger.Info("Response letter generated",
		zap.String("factura", factura),
		zap.Int("glosas", len(glosas)),
		zap.Float64("valor_aceptado", aceptado),
		zap.Float64("valor_rechazado", rechazado))

	return &models.ResponseData{
		Factura:           invoice.Factura,
		ValorTotalGlosado: invoice.ValorTotalGlosado,
		ValorAceptado:     aceptado,
		ValorRechazado:    rechazado,
		Glosas:            glosas,
		CartaFinal:        letter,
	}, nil
}

// Forward posts the (possibly reviewer-edited) letter and the saved
// analyses to the configured n8n webhook.
func (s *ResponseService) Forward(ctx context.Context, factura, letter string) error {
	if _, err := s.findInvoice(factura); err != nil {
		return err
	}

	url, err := s.settings.Get(repository.SettingWebhookURL)
	if err != nil {
		return err
	}
	if url == "" {
		return webhook.ErrNotConfigured
	}

	glosas, err := s.analyses.ListByFactura(factura)
	if err != nil {
		return err
	}

	return s.sender.SendResponse(ctx, url, webhook.ResponsePayload{
		Factura:          factura,
		Respuesta:        letter,
		GlosasAnalizadas: glosas,
	})
}

// ExportDisputed builds the XLSX of the invoice's disputed lines and
// posts it to the configured n8n webhook.
func (s *ResponseService) ExportDisputed(ctx context.Context, factura string) error {
	invoice, err := s.findInvoice(factura)
	if err != nil {
		return err
	}

	url, err := s.settings.Get(repository.SettingWebhookURL)
	if err != nil {
		return err
	}
	if url == "" {
		return webhook.ErrNotConfigured
	}

	workbook, err := s.builder.DisputedLinesWorkbook(invoice)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("glosas_%s.xlsx", invoice.Factura)
	return s.sender.SendWorkbook(ctx, url, filename, workbook)
}

func (s *ResponseService) findInvoice(factura string) (*models.InvoiceSummary, error) {
	inv, err := s.invoices.GetByFactura(factura)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}
