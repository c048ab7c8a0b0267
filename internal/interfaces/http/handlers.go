package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"github.com/JuanValentinPerdomo/glosas/internal/parser"
	"github.com/JuanValentinPerdomo/glosas/internal/repository"
	"github.com/JuanValentinPerdomo/glosas/internal/service"
	"github.com/JuanValentinPerdomo/glosas/internal/webhook"
)

// InvoiceAPI is the invoice surface the handlers depend on.
type InvoiceAPI interface {
	Upload(r io.Reader, contentType, filename string) (*service.UploadResult, error)
	Get(factura string) (*models.InvoiceSummary, error)
	List() ([]*models.InvoiceSummary, *models.InvoiceStats, error)
}

// AnalysisAPI is the per-gloss analysis surface the handlers depend on.
type AnalysisAPI interface {
	Analyze(ctx context.Context, factura, codigoDetalle string) (*service.AnalysisSuggestion, error)
	Save(factura, codigoDetalle string, input service.SaveAnalysisInput) (*models.GlossAnalysis, error)
	Get(factura, codigoDetalle string) (*models.GlossAnalysis, error)
	List(factura string) ([]models.GlossAnalysis, error)
}

// ResponseAPI is the response-letter surface the handlers depend on.
type ResponseAPI interface {
	Generate(ctx context.Context, factura string) (*models.ResponseData, error)
	Forward(ctx context.Context, factura, letter string) error
	ExportDisputed(ctx context.Context, factura string) error
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	invoices  InvoiceAPI
	analyses  AnalysisAPI
	responses ResponseAPI
	settings  service.SettingsStore
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	invoices InvoiceAPI,
	analyses AnalysisAPI,
	responses ResponseAPI,
	settings service.SettingsStore,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		invoices:  invoices,
		analyses:  analyses,
		responses: responses,
		settings:  settings,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// InvoiceListResponse bundles the stored collection with its
// dashboard stats.
type InvoiceListResponse struct {
	Invoices []*models.InvoiceSummary `json:"invoices"`
	Stats    *models.InvoiceStats     `json:"stats"`
}

// ForwardRequest carries the (possibly edited) letter to forward.
type ForwardRequest struct {
	Respuesta string `json:"respuesta" binding:"required"`
}

// WebhookSettingRequest carries the n8n webhook URL to store.
type WebhookSettingRequest struct {
	URL string `json:"url" binding:"required"`
}

// WebhookSettingResponse reports the stored n8n webhook URL.
type WebhookSettingResponse struct {
	URL string `json:"url"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// UploadInvoices handles POST /api/v1/invoices/upload
func (h *Handlers) UploadInvoices(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("Upload without file field", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "se requiere un archivo en el campo 'file'",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "no se pudo leer el archivo",
		})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.invoices.Upload(file, contentType, fileHeader.Filename)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ListInvoices handles GET /api/v1/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	invoices, stats, err := h.invoices.List()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: InvoiceListResponse{
			Invoices: invoices,
			Stats:    stats,
		},
	})
}

// GetInvoice handles GET /api/v1/invoices/:factura
func (h *Handlers) GetInvoice(c *gin.Context) {
	invoice, err := h.invoices.Get(c.Param("factura"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    invoice,
	})
}

// AnalyzeService handles POST /api/v1/invoices/:factura/services/:detalle/analyze
func (h *Handlers) AnalyzeService(c *gin.Context) {
	suggestion, err := h.analyses.Analyze(c.Request.Context(), c.Param("factura"), c.Param("detalle"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    suggestion,
	})
}

// SaveAnalysis handles PUT /api/v1/invoices/:factura/services/:detalle/analysis
func (h *Handlers) SaveAnalysis(c *gin.Context) {
	var input service.SaveAnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("Invalid analysis payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "cuerpo de la petición inválido",
		})
		return
	}

	analysis, err := h.analyses.Save(c.Param("factura"), c.Param("detalle"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    analysis,
	})
}

// ListAnalyses handles GET /api/v1/invoices/:factura/analyses
func (h *Handlers) ListAnalyses(c *gin.Context) {
	analyses, err := h.analyses.List(c.Param("factura"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    analyses,
	})
}

// GenerateResponse handles POST /api/v1/invoices/:factura/response
func (h *Handlers) GenerateResponse(c *gin.Context) {
	response, err := h.responses.Generate(c.Request.Context(), c.Param("factura"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// DownloadResponse handles GET /api/v1/invoices/:factura/response/download.
// The reviewer-edited letter travels in the carta query parameter; when
// absent the letter is regenerated from the saved analyses.
func (h *Handlers) DownloadResponse(c *gin.Context) {
	factura := c.Param("factura")

	letter := c.Query("carta")
	if letter == "" {
		response, err := h.responses.Generate(c.Request.Context(), factura)
		if err != nil {
			h.respondError(c, err)
			return
		}
		letter = response.CartaFinal
	}

	filename := fmt.Sprintf("respuesta_%s.txt", factura)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(letter))
}

// ForwardResponse handles POST /api/v1/invoices/:factura/forward
func (h *Handlers) ForwardResponse(c *gin.Context) {
	var req ForwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid forward payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "se requiere el campo 'respuesta'",
		})
		return
	}

	if err := h.responses.Forward(c.Request.Context(), c.Param("factura"), req.Respuesta); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"factura": c.Param("factura"), "enviado": true},
	})
}

// ExportDisputed handles POST /api/v1/invoices/:factura/export
func (h *Handlers) ExportDisputed(c *gin.Context) {
	if err := h.responses.ExportDisputed(c.Request.Context(), c.Param("factura")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"factura": c.Param("factura"), "enviado": true},
	})
}

// GetWebhookSetting handles GET /api/v1/settings/webhook
func (h *Handlers) GetWebhookSetting(c *gin.Context) {
	url, err := h.settings.Get(repository.SettingWebhookURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    WebhookSettingResponse{URL: url},
	})
}

// PutWebhookSetting handles PUT /api/v1/settings/webhook
func (h *Handlers) PutWebhookSetting(c *gin.Context) {
	var req WebhookSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid webhook setting payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "se requiere el campo 'url'",
		})
		return
	}

	if err := h.settings.Put(repository.SettingWebhookURL, req.URL); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    WebhookSettingResponse{URL: req.URL},
	})
}

// respondError maps service errors onto the JSON envelope.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound),
		errors.Is(err, service.ErrServiceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, parser.ErrUnsupportedType),
		errors.Is(err, parser.ErrUnreadableFile),
		errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, service.ErrNoAnalyses),
		errors.Is(err, webhook.ErrNotConfigured):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}

	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
	})
}
