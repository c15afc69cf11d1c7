package orders

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

// OrderRepository persists placed orders. Orders are append-only: there is
// no update path.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create assigns the order its id and creation time and stores it with its
// lines in one transaction.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.New().String()

	var createdAt time.Time
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, customer_name, delivery_method, address, phone_number, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, id, order.CustomerName, order.DeliveryMethod, order.Address, order.PhoneNumber, order.Total).Scan(&createdAt)
	if err != nil {
		return err
	}

	for i, line := range order.Items {
		var packageID sql.NullString
		var primary, secondary []string
		if line.Package != nil {
			packageID = sql.NullString{String: line.Package.PackageID, Valid: true}
			primary = line.Package.Primary
			secondary = line.Package.Secondary
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (
				order_id, position, kind, item_id, name, local_name, price, description,
				image_url, category, cuisine, quantity, package_id, package_primary, package_secondary
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, id, i, line.Kind, line.Item.ID, line.Item.Name, line.Item.LocalName, line.Item.Price, line.Item.Description,
			line.Item.ImageURL, line.Item.Category, line.Item.Cuisine, line.Quantity, packageID, pq.Array(primary), pq.Array(secondary))
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	order.ID = id
	order.CreatedAt = createdAt
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_name, delivery_method, address, phone_number, total, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerName, &order.DeliveryMethod, &order.Address, &order.PhoneNumber, &order.Total, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+lineColumns+`
		FROM order_lines
		WHERE order_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	order.Items = []domain.CartLine{}
	for rows.Next() {
		_, line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// List returns every order, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_name, delivery_method, address, phone_number, total, created_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.DeliveryMethod, &order.Address, &order.PhoneNumber, &order.Total, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.Items = []domain.CartLine{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	lineRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, `+lineColumns+`
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = lineRows.Close() }()

	for lineRows.Next() {
		orderID, line, err := scanLine(lineRows)
		if err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, line)
	}

	if err := lineRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

const lineColumns = `kind, item_id, name, local_name, price, description, image_url, category, cuisine,
			quantity, package_id, package_primary, package_secondary`

// scanLine reads lineColumns, optionally preceded by the order id when the
// row has one extra column.
func scanLine(rows *sql.Rows) (string, domain.CartLine, error) {
	var (
		orderID   string
		line      domain.CartLine
		packageID sql.NullString
		primary   pq.StringArray
		secondary pq.StringArray
	)

	dest := []any{
		&line.Kind, &line.Item.ID, &line.Item.Name, &line.Item.LocalName, &line.Item.Price, &line.Item.Description,
		&line.Item.ImageURL, &line.Item.Category, &line.Item.Cuisine, &line.Quantity, &packageID, &primary, &secondary,
	}

	columns, err := rows.Columns()
	if err != nil {
		return "", line, err
	}
	if len(columns) == len(dest)+1 {
		dest = append([]any{&orderID}, dest...)
	}

	if err := rows.Scan(dest...); err != nil {
		return "", line, err
	}

	if packageID.Valid {
		line.Package = &domain.PackageContents{
			PackageID: packageID.String,
			Primary:   []string(primary),
			Secondary: []string(secondary),
		}
	}

	return orderID, line, nil
}
