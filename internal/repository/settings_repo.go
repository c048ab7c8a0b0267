package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Setting keys.
const (
	SettingWebhookURL = "n8n_webhook_url"
)

// SettingsRepository stores the small key-value configuration the
// reviewer edits at runtime (currently only the n8n webhook URL).
type SettingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the value for a key, or "" when the key is unset.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		r.logger.Error("Failed to get setting", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// Put stores the value for a key, overwriting any previous value.
func (r *SettingsRepository) Put(key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := r.db.Exec(query, key, value); err != nil {
		r.logger.Error("Failed to put setting", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to put setting %s: %w", key, err)
	}

	r.logger.Info("Setting updated", zap.String("key", key))
	return nil
}
