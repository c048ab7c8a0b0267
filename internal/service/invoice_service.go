package service

import (
	"fmt"
	"io"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"github.com/JuanValentinPerdomo/glosas/internal/parser"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadResult summarizes one processed upload batch.
type UploadResult struct {
	BatchID  string   `json:"batchId"`
	Facturas []string `json:"facturas"`
	Count    int      `json:"count"`
}

// InvoiceService handles spreadsheet ingestion and invoice lookups.
type InvoiceService struct {
	invoices InvoiceStore
	logger   *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoices InvoiceStore, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		logger:   logger,
	}
}

// Upload decodes a spreadsheet, aggregates its rows into invoice
// summaries and merges them into the stored collection. Each incoming
// invoice fully replaces its stored counterpart.
func (s *InvoiceService) Upload(r io.Reader, contentType, filename string) (*UploadResult, error) {
	batchID := uuid.NewString()
	s.logger.Info("Processing upload",
		zap.String("batch_id", batchID),
		zap.String("filename", filename),
		zap.String("content_type", contentType))

	rows, err := parser.DecodeRows(r, contentType)
	if err != nil {
		s.logger.Warn("Upload rejected",
			zap.String("batch_id", batchID),
			zap.Error(err))
		return nil, err
	}

	summaries := parser.Aggregate(rows)
	if err := s.invoices.MergeBatch(summaries); err != nil {
		return nil, fmt.Errorf("failed to merge batch: %w", err)
	}

	result := &UploadResult{
		BatchID: batchID,
		Count:   len(summaries),
	}
	for _, inv := range summaries {
		result.Facturas = append(result.Facturas, inv.Factura)
	}

	s.logger.Info("Upload processed",
		zap.String("batch_id", batchID),
		zap.Int("rows", len(rows)),
		zap.Int("invoices", result.Count))
	return result, nil
}

// Get returns one stored invoice summary.
func (s *InvoiceService) Get(factura string) (*models.InvoiceSummary, error) {
	inv, err := s.invoices.GetByFactura(factura)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

// List returns the stored collection plus its dashboard stats.
func (s *InvoiceService) List() ([]*models.InvoiceSummary, *models.InvoiceStats, error) {
	invoices, err := s.invoices.List()
	if err != nil {
		return nil, nil, err
	}

	stats, err := s.invoices.Stats()
	if err != nil {
		return nil, nil, err
	}

	return invoices, stats, nil
}
