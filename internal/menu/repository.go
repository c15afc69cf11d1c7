package menu

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

type MenuRepository struct {
	db *sql.DB
}

func NewMenuRepository(db *sql.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) List(ctx context.Context) (domain.Catalog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, local_name, price, description, image_url, category, cuisine
		FROM menu_items
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	catalog := domain.Catalog{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.LocalName, &item.Price, &item.Description, &item.ImageURL, &item.Category, &item.Cuisine); err != nil {
			return nil, err
		}
		catalog = append(catalog, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return catalog, nil
}

func (r *MenuRepository) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	item := &domain.MenuItem{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, local_name, price, description, image_url, category, cuisine
		FROM menu_items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.LocalName, &item.Price, &item.Description, &item.ImageURL, &item.Category, &item.Cuisine)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return item, nil
}

// Save inserts the item, or overwrites it when the id already exists. An
// empty id gets a fresh one.
func (r *MenuRepository) Save(ctx context.Context, item *domain.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, name, local_name, price, description, image_url, category, cuisine)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			local_name = EXCLUDED.local_name,
			price = EXCLUDED.price,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			category = EXCLUDED.category,
			cuisine = EXCLUDED.cuisine,
			updated_at = NOW()
	`, item.ID, item.Name, item.LocalName, item.Price, item.Description, item.ImageURL, item.Category, item.Cuisine)
	return err
}

// Delete removes the item and reports whether it existed.
func (r *MenuRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
