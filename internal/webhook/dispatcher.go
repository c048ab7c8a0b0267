package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned before any network call when no webhook
// URL has been saved in settings.
var ErrNotConfigured = errors.New("webhook de n8n no configurado")

// ResponsePayload is the JSON body forwarded to n8n after a response
// letter is generated. Field names match what the automation flows
// already consume.
type ResponsePayload struct {
	Factura          string                 `json:"factura"`
	Respuesta        string                 `json:"respuesta"`
	GlosasAnalizadas []models.GlossAnalysis `json:"glosasAnalizadas"`
}

// Dispatcher performs the outbound calls to the user-configured n8n
// webhook. Calls are one-shot: no retry, no bespoke timeout beyond the
// transport default.
type Dispatcher struct {
	client *http.Client
	logger *zap.Logger
}

// NewDispatcher creates a new webhook dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		client: http.DefaultClient,
		logger: logger,
	}
}

// SendResponse posts the generated letter and its analyses as JSON.
func (d *Dispatcher) SendResponse(ctx context.Context, url string, payload ResponsePayload) error {
	if url == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return d.do(req, payload.Factura)
}

// SendWorkbook posts an XLSX workbook as a multipart upload under the
// "file" field, the shape the n8n excel-upload flow expects.
func (d *Dispatcher) SendWorkbook(ctx context.Context, url, filename string, workbook []byte) error {
	if url == "" {
		return ErrNotConfigured
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := part.Write(workbook); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return d.do(req, filename)
}

func (d *Dispatcher) do(req *http.Request, subject string) error {
	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Error("Webhook call failed", zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("webhook call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.logger.Error("Webhook rejected the payload",
			zap.String("subject", subject),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	d.logger.Info("Webhook delivered",
		zap.String("subject", subject),
		zap.Int("status", resp.StatusCode))
	return nil
}
