package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

// SettingsRepository reads and writes the single order settings row.
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings, or empty settings when none were saved yet.
func (r *SettingsRepository) Get(ctx context.Context) (domain.OrderSettings, error) {
	var deadline, published sql.NullTime

	err := r.db.QueryRowContext(ctx, `
		SELECT order_deadline, menu_last_updated
		FROM order_settings
		LIMIT 1
	`).Scan(&deadline, &published)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.OrderSettings{}, nil
		}
		return domain.OrderSettings{}, err
	}

	var s domain.OrderSettings
	if deadline.Valid {
		s.OrderDeadline = &deadline.Time
	}
	if published.Valid {
		s.MenuLastUpdated = &published.Time
	}
	return s, nil
}

// SaveDeadline sets the ordering deadline. A nil deadline clears it.
func (r *SettingsRepository) SaveDeadline(ctx context.Context, deadline *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_settings (order_deadline)
		VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET order_deadline = EXCLUDED.order_deadline
	`, nullTime(deadline))
	return err
}

// MarkMenuPublished stamps the publication time. A non-nil deadline is saved
// in the same statement; a nil one leaves the current deadline alone.
func (r *SettingsRepository) MarkMenuPublished(ctx context.Context, deadline *time.Time, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_settings (order_deadline, menu_last_updated)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET
			order_deadline = COALESCE(EXCLUDED.order_deadline, order_settings.order_deadline),
			menu_last_updated = EXCLUDED.menu_last_updated
	`, nullTime(deadline), at)
	return err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
