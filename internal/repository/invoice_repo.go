package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"go.uber.org/zap"
)

// InvoiceRepository stores invoice summaries. Each summary is one row
// keyed by invoice number; the service lines travel as a JSON blob
// since they are always read and written as a unit.
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// MergeBatch merges a freshly aggregated batch into the stored
// collection. Every incoming invoice fully replaces any stored summary
// with the same invoice number; invoices absent from the batch are left
// untouched. Re-uploading a corrected file is therefore an idempotent
// per-invoice overwrite, not an accumulation.
func (r *InvoiceRepository) MergeBatch(invoices []*models.InvoiceSummary) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invoices (
			factura, saldo_factura, total_servicios, servicios_glosados,
			valor_total_glosado, servicios, fuente, fecha_carga
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(factura) DO UPDATE SET
			saldo_factura = excluded.saldo_factura,
			total_servicios = excluded.total_servicios,
			servicios_glosados = excluded.servicios_glosados,
			valor_total_glosado = excluded.valor_total_glosado,
			servicios = excluded.servicios,
			fuente = excluded.fuente,
			fecha_carga = excluded.fecha_carga
	`

	for _, inv := range invoices {
		servicios, err := json.Marshal(inv.Servicios)
		if err != nil {
			return fmt.Errorf("failed to marshal service lines: %w", err)
		}

		if _, err := tx.Exec(query,
			inv.Factura,
			inv.SaldoFactura,
			inv.TotalServicios,
			inv.ServiciosGlosados,
			inv.ValorTotalGlosado,
			string(servicios),
			string(inv.Fuente),
			inv.FechaCarga,
		); err != nil {
			r.logger.Error("Failed to upsert invoice",
				zap.String("factura", inv.Factura),
				zap.Error(err))
			return fmt.Errorf("failed to upsert invoice %s: %w", inv.Factura, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge: %w", err)
	}

	r.logger.Info("Invoice batch merged", zap.Int("count", len(invoices)))
	return nil
}

// GetByFactura returns the stored summary for one invoice, or nil when
// the invoice is unknown.
func (r *InvoiceRepository) GetByFactura(factura string) (*models.InvoiceSummary, error) {
	query := `
		SELECT factura, saldo_factura, total_servicios, servicios_glosados,
		       valor_total_glosado, servicios, fuente, fecha_carga
		FROM invoices
		WHERE factura = ?
	`

	inv, err := r.scanInvoice(r.db.QueryRow(query, factura))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.String("factura", factura), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// List returns every stored invoice summary, most recent upload first.
func (r *InvoiceRepository) List() ([]*models.InvoiceSummary, error) {
	query := `
		SELECT factura, saldo_factura, total_servicios, servicios_glosados,
		       valor_total_glosado, servicios, fuente, fecha_carga
		FROM invoices
		ORDER BY fecha_carga DESC, factura ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.InvoiceSummary
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Stats aggregates the stored collection for the dashboard.
func (r *InvoiceRepository) Stats() (*models.InvoiceStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(servicios_glosados), 0),
		       COALESCE(SUM(valor_total_glosado), 0)
		FROM invoices
	`

	stats := &models.InvoiceStats{}
	err := r.db.QueryRow(query).Scan(
		&stats.TotalFacturas,
		&stats.ServiciosGlosados,
		&stats.ValorTotalGlosado,
	)
	if err != nil {
		r.logger.Error("Failed to compute invoice stats", zap.Error(err))
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *InvoiceRepository) scanInvoice(row rowScanner) (*models.InvoiceSummary, error) {
	var (
		inv       models.InvoiceSummary
		servicios string
		fuente    string
		carga     time.Time
	)

	err := row.Scan(
		&inv.Factura,
		&inv.SaldoFactura,
		&inv.TotalServicios,
		&inv.ServiciosGlosados,
		&inv.ValorTotalGlosado,
		&servicios,
		&fuente,
		&carga,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(servicios), &inv.Servicios); err != nil {
		return nil, fmt.Errorf("failed to unmarshal service lines: %w", err)
	}
	inv.Fuente = models.Origin(fuente)
	inv.FechaCarga = carga

	return &inv, nil
}
