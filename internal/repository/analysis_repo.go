package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JuanValentinPerdomo/glosas/internal/models"
	"go.uber.org/zap"
)

// AnalysisRepository stores gloss analyses keyed by
// (factura, codigo_detalle), mirroring the per-service analysis records
// of the original tool. Saving an existing key overwrites the previous
// analysis; records are never deleted automatically.
type AnalysisRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sql.DB, logger *zap.Logger) *AnalysisRepository {
	return &AnalysisRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores (or overwrites) the analysis for one service line.
func (r *AnalysisRepository) Save(factura, codigoDetalle string, analysis *models.GlossAnalysis) error {
	analysis.UpdatedAt = time.Now()

	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	query := `
		INSERT INTO analyses (factura, codigo_detalle, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(factura, codigo_detalle) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, factura, codigoDetalle, string(data), analysis.UpdatedAt); err != nil {
		r.logger.Error("Failed to save analysis",
			zap.String("factura", factura),
			zap.String("codigo_detalle", codigoDetalle),
			zap.Error(err))
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	r.logger.Info("Analysis saved",
		zap.String("factura", factura),
		zap.String("codigo_detalle", codigoDetalle),
		zap.String("decision", string(analysis.Decision)))
	return nil
}

// Get returns the analysis for one service line, or nil when none has
// been saved yet.
func (r *AnalysisRepository) Get(factura, codigoDetalle string) (*models.GlossAnalysis, error) {
	var data string
	err := r.db.QueryRow(
		"SELECT data FROM analyses WHERE factura = ? AND codigo_detalle = ?",
		factura, codigoDetalle,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get analysis", zap.Error(err))
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var analysis models.GlossAnalysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &analysis, nil
}

// ListByFactura returns every saved analysis for one invoice, in
// service-order of the detail code.
func (r *AnalysisRepository) ListByFactura(factura string) ([]models.GlossAnalysis, error) {
	rows, err := r.db.Query(
		"SELECT data FROM analyses WHERE factura = ? ORDER BY codigo_detalle",
		factura,
	)
	if err != nil {
		r.logger.Error("Failed to list analyses", zap.String("factura", factura), zap.Error(err))
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []models.GlossAnalysis
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}

		var analysis models.GlossAnalysis
		if err := json.Unmarshal([]byte(data), &analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}
