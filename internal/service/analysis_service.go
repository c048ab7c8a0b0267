package service

import (
	"context"

	"github.com/JuanValentinPerdomo/glosas/internal/ai"
	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"go.uber.org/zap"
)

// AnalysisSuggestion is the AI's proposal for one gloss: the free-text
// analysis plus the decision inferred from it. The reviewer edits and
// saves it explicitly; nothing is persisted at analysis time.
type AnalysisSuggestion struct {
	Factura       string          `json:"factura"`
	CodigoDetalle string          `json:"codigoDetalle"`
	Analisis      string          `json:"analisis"`
	Decision      models.Decision `json:"decision"`
}

// SaveAnalysisInput carries the reviewer-editable fields of an analysis.
type SaveAnalysisInput struct {
	AnalisisPertinencia string          `json:"analisisPertinencia"`
	Decision            models.Decision `json:"decision"`
	Argumentacion       string          `json:"argumentacion"`
	ValorAceptado       *float64        `json:"valorAceptado,omitempty"`
}

// AnalysisService drives per-gloss AI analysis and its persistence.
type AnalysisService struct {
	invoices InvoiceStore
	analyses AnalysisStore
	analyst  GlossAnalyst
	logger   *zap.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(invoices InvoiceStore, analyses AnalysisStore, analyst GlossAnalyst, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		invoices: invoices,
		analyses: analyses,
		analyst:  analyst,
		logger:   logger,
	}
}

// Analyze requests an AI pertinence analysis for one service line and
// infers a decision from the returned text.
func (s *AnalysisService) Analyze(ctx context.Context, factura, codigoDetalle string) (*AnalysisSuggestion, error) {
	line, err := s.findService(factura, codigoDetalle)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyst.AnalyzeGloss(ctx, line)
	if err != nil {
		return nil, err
	}

	suggestion := &AnalysisSuggestion{
		Factura:       factura,
		CodigoDetalle: codigoDetalle,
		Analisis:      analysis,
		Decision:      ai.InferDecision(analysis),
	}

	s.logger.Info("Analysis suggested",
		zap.String("factura", factura),
		zap.String("codigo_detalle", codigoDetalle),
		zap.String("decision", string(suggestion.Decision)))
	return suggestion, nil
}

// Save persists the reviewer's analysis for one service line,
// overwriting any previous analysis for the same line.
func (s *AnalysisService) Save(factura, codigoDetalle string, input SaveAnalysisInput) (*models.GlossAnalysis, error) {
	if !input.Decision.Valid() {
		return nil, ErrInvalidDecision
	}

	line, err := s.findService(factura, codigoDetalle)
	if err != nil {
		return nil, err
	}

	analysis := &models.GlossAnalysis{
		CodigoServicio:      line.CodigoServicio,
		NombreServicio:      line.NombreServicio,
		ValorServicio:       line.ValorServicio,
		ValorGlosa:          line.ValorGlosa,
		Comentario:          line.Comentario,
		CodigoConcepto:      line.CodigoConcepto,
		CodigoResponsable:   line.CodigoResponsable,
		AnalisisPertinencia: input.AnalisisPertinencia,
		Decision:            input.Decision,
		Argumentacion:       input.Argumentacion,
		ValorAceptado:       input.ValorAceptado,
	}

	if err := s.analyses.Save(factura, codigoDetalle, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// Get returns the saved analysis for one service line.
func (s *AnalysisService) Get(factura, codigoDetalle string) (*models.GlossAnalysis, error) {
	analysis, err := s.analyses.Get(factura, codigoDetalle)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, ErrServiceNotFound
	}
	return analysis, nil
}

// List returns every saved analysis for an invoice.
func (s *AnalysisService) List(factura string) ([]models.GlossAnalysis, error) {
	if _, err := s.findInvoice(factura); err != nil {
		return nil, err
	}
	return s.analyses.ListByFactura(factura)
}

func (s *AnalysisService) findInvoice(factura string) (*models.InvoiceSummary, error) {
	inv, err := s.invoices.GetByFactura(factura)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *AnalysisService) findService(factura, codigoDetalle string) (*models.ServiceLine, error) {
	inv, err := s.findInvoice(factura)
	if err != nil {
		return nil, err
	}

	line := inv.FindService(codigoDetalle)
	if line == nil {
		return nil, ErrServiceNotFound
	}
	return line, nil
}
