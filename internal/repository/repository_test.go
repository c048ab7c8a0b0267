package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"github.com/JuanValentinPerdomo/glosas/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "glosas_test.db"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, zap.NewNop())
	require.NoError(t, migrator.RunMigrations("../../migrations"))

	return db
}

func invoiceFixture(factura string, lines ...models.ServiceLine) *models.InvoiceSummary {
	inv := &models.InvoiceSummary{
		Factura:    factura,
		Servicios:  lines,
		Fuente:     models.OriginManual,
		FechaCarga: time.Now(),
	}
	for _, l := range lines {
		inv.TotalServicios++
		if l.ValorGlosa > 0 {
			inv.ServiciosGlosados++
			inv.ValorTotalGlosado += l.ValorGlosa
		}
	}
	return inv
}

func TestInvoiceRepository_MergeBatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db.DB, zap.NewNop())

	t.Run("round trips an invoice", func(t *testing.T) {
		inv := invoiceFixture("FAC-1",
			models.ServiceLine{Factura: "FAC-1", CodigoDetalle: "D1", NombreServicio: "Consulta", ValorGlosa: 50000},
			models.ServiceLine{Factura: "FAC-1", CodigoDetalle: "D2", NombreServicio: "Laboratorio"},
		)
		inv.SaldoFactura = 900000

		require.NoError(t, repo.MergeBatch([]*models.InvoiceSummary{inv}))

		got, err := repo.GetByFactura("FAC-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 900000.0, got.SaldoFactura)
		assert.Equal(t, 2, got.TotalServicios)
		assert.Equal(t, 1, got.ServiciosGlosados)
		assert.Equal(t, 50000.0, got.ValorTotalGlosado)
		require.Len(t, got.Servicios, 2)
		assert.Equal(t, "Consulta", got.Servicios[0].NombreServicio)
	})

	t.Run("merge replaces matching invoices and keeps the rest", func(t *testing.T) {
		a := invoiceFixture("A", models.ServiceLine{Factura: "A", CodigoDetalle: "D1", ValorGlosa: 100})
		b := invoiceFixture("B", models.ServiceLine{Factura: "B", CodigoDetalle: "D1", ValorGlosa: 200})
		require.NoError(t, repo.MergeBatch([]*models.InvoiceSummary{a, b}))

		before, err := repo.GetByFactura("B")
		require.NoError(t, err)

		// New batch carries only invoice A, with different line data.
		newA := invoiceFixture("A",
			models.ServiceLine{Factura: "A", CodigoDetalle: "D9", ValorGlosa: 777},
		)
		require.NoError(t, repo.MergeBatch([]*models.InvoiceSummary{newA}))

		gotA, err := repo.GetByFactura("A")
		require.NoError(t, err)
		require.Len(t, gotA.Servicios, 1)
		assert.Equal(t, "D9", gotA.Servicios[0].CodigoDetalle)
		assert.Equal(t, 777.0, gotA.ValorTotalGlosado)

		gotB, err := repo.GetByFactura("B")
		require.NoError(t, err)
		assert.Equal(t, before, gotB)
	})

	t.Run("unknown invoice yields nil", func(t *testing.T) {
		got, err := repo.GetByFactura("missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestInvoiceRepository_ListAndStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db.DB, zap.NewNop())

	require.NoError(t, repo.MergeBatch([]*models.InvoiceSummary{
		invoiceFixture("F1", models.ServiceLine{Factura: "F1", CodigoDetalle: "D1", ValorGlosa: 1000}),
		invoiceFixture("F2",
			models.ServiceLine{Factura: "F2", CodigoDetalle: "D1", ValorGlosa: 2500},
			models.ServiceLine{Factura: "F2", CodigoDetalle: "D2"},
		),
	}))

	invoices, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, invoices, 2)

	stats, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFacturas)
	assert.Equal(t, 2, stats.ServiciosGlosados)
	assert.Equal(t, 3500.0, stats.ValorTotalGlosado)
}

func TestAnalysisRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewAnalysisRepository(db.DB, zap.NewNop())

	analysis := &models.GlossAnalysis{
		CodigoServicio:      "S-1",
		NombreServicio:      "Consulta",
		ValorGlosa:          45000,
		AnalisisPertinencia: "La glosa es improcedente.",
		Decision:            models.DecisionRechazar,
		Argumentacion:       "Soporte clínico adjunto.",
	}

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, repo.Save("FAC-1", "D1", analysis))

		got, err := repo.Get("FAC-1", "D1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.DecisionRechazar, got.Decision)
		assert.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("re-analysis overwrites", func(t *testing.T) {
		updated := *analysis
		updated.Decision = models.DecisionAceptar
		require.NoError(t, repo.Save("FAC-1", "D1", &updated))

		got, err := repo.Get("FAC-1", "D1")
		require.NoError(t, err)
		assert.Equal(t, models.DecisionAceptar, got.Decision)

		all, err := repo.ListByFactura("FAC-1")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("missing analysis yields nil", func(t *testing.T) {
		got, err := repo.Get("FAC-1", "never-analyzed")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list is scoped to the invoice", func(t *testing.T) {
		require.NoError(t, repo.Save("FAC-2", "D1", analysis))

		all, err := repo.ListByFactura("FAC-2")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestSettingsRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db.DB, zap.NewNop())

	t.Run("unset key yields empty string", func(t *testing.T) {
		value, err := repo.Get(SettingWebhookURL)
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, repo.Put(SettingWebhookURL, "https://n8n.example.com/webhook/glosas"))

		value, err := repo.Get(SettingWebhookURL)
		require.NoError(t, err)
		assert.Equal(t, "https://n8n.example.com/webhook/glosas", value)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, repo.Put(SettingWebhookURL, "https://other.example.com"))

		value, err := repo.Get(SettingWebhookURL)
		require.NoError(t, err)
		assert.Equal(t, "https://other.example.com", value)
	})
}
