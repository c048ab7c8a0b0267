package service

import (
	"context"
	"testing"
	"time"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func storedInvoice() *models.InvoiceSummary {
	return &models.InvoiceSummary{
		Factura:           "F001",
		SaldoFactura:      150000,
		TotalServicios:    2,
		ServiciosGlosados: 1,
		ValorTotalGlosado: 20000,
		FechaCarga:        time.Now(),
		Fuente:            models.OriginManual,
		Servicios: []models.ServiceLine{
			{
				CodigoDetalle:     "D1",
				Factura:           "F001",
				CodigoServicio:    "S1",
				NombreServicio:    "Consulta especializada",
				ValorServicio:     50000,
				ValorGlosa:        20000,
				CodigoConcepto:    "C-23",
				CodigoResponsable: "R-1",
				Comentario:        "Tarifa superior al contrato",
			},
			{
				CodigoDetalle:  "D2",
				Factura:        "F001",
				CodigoServicio: "S2",
				NombreServicio: "Laboratorio",
				ValorServicio:  30000,
			},
		},
	}
}

func TestAnalysisService_Analyze(t *testing.T) {
	logger := zap.NewNop()

	t.Run("suggests an analysis with an inferred decision", func(t *testing.T) {
		invoices := NewMockInvoiceStore()
		require.NoError(t, invoices.MergeBatch([]*models.InvoiceSummary{storedInvoice()}))

		analyst := &MockAnalyst{analysis: "La glosa es improcedente: se recomienda rechazar la glosa."}
		svc := NewAnalysisService(invoices, NewMockAnalysisStore(), analyst, logger)

		suggestion, err := svc.Analyze(context.Background(), "F001", "D1")
		require.NoError(t, err)
		assert.Equal(t, "F001", suggestion.Factura)
		assert.Equal(t, "D1", suggestion.CodigoDetalle)
		assert.Equal(t, analyst.analysis, suggestion.Analisis)
		assert.Equal(t, models.DecisionRechazar, suggestion.Decision)

		require.Len(t, analyst.analyzedServices, 1)
		assert.Equal(t, "S1", analyst.analyzedServices[0].CodigoServicio)
	})

	t.Run("does not persist the suggestion", func(t *testing.T) {
		invoices := NewMockInvoiceStore()
		require.NoError(t, invoices.MergeBatch([]*models.InvoiceSummary{storedInvoice()}))

		analyses := NewMockAnalysisStore()
		svc := NewAnalysisService(invoices, analyses, &MockAnalyst{analysis: "Se debe aceptar la glosa."}, logger)

		_, err := svc.Analyze(context.Background(), "F001", "D1")
		require.NoError(t, err)
		assert.Empty(t, analyses.saved)
	})

	t.Run("reports a missing invoice", func(t *testing.T) {
		svc := NewAnalysisService(NewMockInvoiceStore(), NewMockAnalysisStore(), &MockAnalyst{}, logger)

		_, err := svc.Analyze(context.Background(), "F404", "D1")
		assert.ErrorIs(t, err, ErrInvoiceNotFound)
	})

	t.Run("reports a missing service line", func(t *testing.T) {
		invoices := NewMockInvoiceStore()
		require.NoError(t, invoices.MergeBatch([]*models.InvoiceSummary{storedInvoice()}))

		svc := NewAnalysisService(invoices, NewMockAnalysisStore(), &MockAnalyst{}, logger)

		_, err := svc.Analyze(context.Background(), "F001", "D404")
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}

func TestAnalysisService_Save(t *testing.T) {
	logger := zap.NewNop()

	t.Run("persists the reviewer's analysis with line details", func(t *testing.T) {
		invoices := NewMockInvoiceStore()
		require.NoError(t, invoices.MergeBatch([]*models.InvoiceSummary{storedInvoice()}))

		analyses := NewMockAnalysisStore()
		svc := NewAnalysisService(invoices, analyses, &MockAnalyst{}, logger)

		valorAceptado := 10000.0
		saved, err := svc.Save("F001", "D1", SaveAnalysisInput{
			AnalisisPertinencia: "La tarifa pactada respalda el cobro parcial.",
			Decision:            models.DecisionAceptarParcial,
			Argumentacion:       "Se acepta parcialmente según anexo tarifario.",
			ValorAceptado:       &valorAceptado,
		})
		require.NoError(t, err)

		assert.Equal(t, "S1", saved.CodigoServicio)
		assert.Equal(t, "Consulta especializada", saved.NombreServicio)
		assert.Equal(t, 50000.0, saved.ValorServicio)
		assert.Equal(t, 20000.0, saved.ValorGlosa)
		assert.Equal(t, "Tarifa superior al contrato", saved.Comentario)
		assert.Equal(t, "C-23", saved.CodigoConcepto)
		assert.Equal(t, models.DecisionAceptarParcial, saved.Decision)
		require.NotNil(t, saved.ValorAceptado)
		assert.Equal(t, valorAceptado, *saved.ValorAceptado)

		stored, err := analyses.Get("F001", "D1")
		require.NoError(t, err)
		assert.Equal(t, saved, stored)
	})

	t.Run("rejects an invalid decision", func(t *testing.T) {
		invoices := NewMockInvoiceStore()
		require.NoError(t, invoices.MergeBatch([]*models.InvoiceSummary{storedInvoice()}))

		svc := NewAnalysisService(invoices, NewMockAnalysisStore(), &MockAnalyst{}, logger)

		_, err := svc.Save("F001", "D1", SaveAnalysisInput{Decision: "apelar"})
		assert.ErrorIs(t, err, ErrInvalidDecision)
	})

	t.Run("overwrites a previous analysis for the same line", func(t *testing.T) {
		invoices := NewMockInvoiceStore()
		require.NoError(t, invoices.MergeBatch([]*models.InvoiceSummary{storedInvoice()}))

		analyses := NewMockAnalysisStore()
		svc := NewAnalysisService(invoices, analyses, &MockAnalyst{}, logger)

		_, err := svc.Save("F001", "D1", SaveAnalysisInput{Decision: models.DecisionRechazar})
		require.NoError(t, err)
		_, err = svc.Save("F001", "D1", SaveAnalysisInput{Decision: models.DecisionAceptar})
		require.NoError(t, err)

		stored, err := analyses.Get("F001", "D1")
		require.NoError(t, err)
		assert.Equal(t, models.DecisionAceptar, stored.Decision)
	})
}

func TestAnalysisService_List(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns every saved analysis for the invoice", func(t *testing.T) {
		invoices := NewMockInvoiceStore()
		require.NoError(t, invoices.MergeBatch([]*models.InvoiceSummary{storedInvoice()}))

		analyses := NewMockAnalysisStore()
		svc := NewAnalysisService(invoices, analyses, &MockAnalyst{}, logger)

		_, err := svc.Save("F001", "D1", SaveAnalysisInput{Decision: models.DecisionRechazar})
		require.NoError(t, err)
		_, err = svc.Save("F001", "D2", SaveAnalysisInput{Decision: models.DecisionAceptar})
		require.NoError(t, err)

		list, err := svc.List("F001")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("reports a missing invoice", func(t *testing.T) {
		svc := NewAnalysisService(NewMockInvoiceStore(), NewMockAnalysisStore(), &MockAnalyst{}, logger)

		_, err := svc.List("F404")
		assert.ErrorIs(t, err, ErrInvoiceNotFound)
	})
}
