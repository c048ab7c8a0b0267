package service

import (
	"context"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"github.com/JuanValentinPerdomo/glosas/internal/webhook"
)

// MockInvoiceStore implements InvoiceStore for testing
type MockInvoiceStore struct {
	invoices map[string]*models.InvoiceSummary
	order    []string
	err      error
}

func NewMockInvoiceStore() *MockInvoiceStore {
	return &MockInvoiceStore{invoices: make(map[string]*models.InvoiceSummary)}
}

func (m *MockInvoiceStore) MergeBatch(invoices []*models.InvoiceSummary) error {
	if m.err != nil {
		return m.err
	}
	for _, inv := range invoices {
		if _, seen := m.invoices[inv.Factura]; !seen {
			m.order = append(m.order, inv.Factura)
		}
		m.invoices[inv.Factura] = inv
	}
	return nil
}

func (m *MockInvoiceStore) GetByFactura(factura string) (*models.InvoiceSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.invoices[factura], nil
}

func (m *MockInvoiceStore) List() ([]*models.InvoiceSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.InvoiceSummary
	for _, factura := range m.order {
		out = append(out, m.invoices[factura])
	}
	return out, nil
}

func (m *MockInvoiceStore) Stats() (*models.InvoiceStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	stats := &models.InvoiceStats{}
	for _, inv := range m.invoices {
		stats.TotalFacturas++
		stats.ServiciosGlosados += inv.ServiciosGlosados
		stats.ValorTotalGlosado += inv.ValorTotalGlosado
	}
	return stats, nil
}

// MockAnalysisStore implements AnalysisStore for testing
type MockAnalysisStore struct {
	saved map[string]*models.GlossAnalysis
	err   error
}

func NewMockAnalysisStore() *MockAnalysisStore {
	return &MockAnalysisStore{saved: make(map[string]*models.GlossAnalysis)}
}

func (m *MockAnalysisStore) key(factura, codigoDetalle string) string {
	return factura + "|" + codigoDetalle
}

func (m *MockAnalysisStore) Save(factura, codigoDetalle string, analysis *models.GlossAnalysis) error {
	if m.err != nil {
		return m.err
	}
	m.saved[m.key(factura, codigoDetalle)] = analysis
	return nil
}

func (m *MockAnalysisStore) Get(factura, codigoDetalle string) (*models.GlossAnalysis, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.saved[m.key(factura, codigoDetalle)], nil
}

func (m *MockAnalysisStore) ListByFactura(factura string) ([]models.GlossAnalysis, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.GlossAnalysis
	for key, analysis := range m.saved {
		if len(key) > len(factura) && key[:len(factura)+1] == factura+"|" {
			out = append(out, *analysis)
		}
	}
	return out, nil
}

// MockSettingsStore implements SettingsStore for testing
type MockSettingsStore struct {
	values map[string]string
	err    error
}

func NewMockSettingsStore() *MockSettingsStore {
	return &MockSettingsStore{values: make(map[string]string)}
}

func (m *MockSettingsStore) Get(key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[key], nil
}

func (m *MockSettingsStore) Put(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

// MockAnalyst implements GlossAnalyst for testing
type MockAnalyst struct {
	analysis string
	letter   string
	err      error

	analyzedServices []*models.ServiceLine
	letterInvoices   []*models.InvoiceSummary
}

func (m *MockAnalyst) AnalyzeGloss(_ context.Context, service *models.ServiceLine) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.analyzedServices = append(m.analyzedServices, service)
	return m.analysis, nil
}

func (m *MockAnalyst) GenerateLetter(_ context.Context, invoice *models.InvoiceSummary, _ []models.GlossAnalysis) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.letterInvoices = append(m.letterInvoices, invoice)
	return m.letter, nil
}

// MockWebhookSender implements WebhookSender for testing
type MockWebhookSender struct {
	err error

	responses []webhook.ResponsePayload
	workbooks map[string][]byte
	urls      []string
}

func NewMockWebhookSender() *MockWebhookSender {
	return &MockWebhookSender{workbooks: make(map[string][]byte)}
}

func (m *MockWebhookSender) SendResponse(_ context.Context, url string, payload webhook.ResponsePayload) error {
	if m.err != nil {
		return m.err
	}
	m.urls = append(m.urls, url)
	m.responses = append(m.responses, payload)
	return nil
}

func (m *MockWebhookSender) SendWorkbook(_ context.Context, url, filename string, workbook []byte) error {
	if m.err != nil {
		return m.err
	}
	m.urls = append(m.urls, url)
	m.workbooks[filename] = workbook
	return nil
}

// MockWorkbookBuilder implements WorkbookBuilder for testing
type MockWorkbookBuilder struct {
	data []byte
	err  error
}

func (m *MockWorkbookBuilder) DisputedLinesWorkbook(_ *models.InvoiceSummary) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}
