package repository

import (
	"context"
	"fmt"

	"craftsmen_marketplace/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and its items in one transaction. The total is
// computed from the items server-side; callers cannot set it directly.
func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var total float64
	for _, item := range order.Items {
		total += item.Price * float64(item.Quantity)
	}
	order.TotalAmount = total
	if order.Status == "" {
		order.Status = "pending"
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (total_amount, status, customer_name, customer_phone, customer_email, delivery_address, notes)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, $7)
		RETURNING id, created_at
	`, order.TotalAmount, order.Status, order.CustomerName, order.CustomerPhone,
		order.CustomerEmail, order.DeliveryAddress, order.Notes).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, order.ID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*entities.Order, error) {
	var o entities.Order
	err := r.db.QueryRow(ctx, `
		SELECT id, total_amount, status, customer_name, customer_phone, COALESCE(customer_email,''), COALESCE(delivery_address,''), COALESCE(notes,''), created_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &o.TotalAmount, &o.Status, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.DeliveryAddress, &o.Notes, &o.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, "SELECT id, product_id, quantity, price FROM order_items WHERE order_id = $1 ORDER BY id", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item entities.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	return &o, rows.Err()
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]entities.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, total_amount, status, customer_name, customer_phone, COALESCE(customer_email,''), COALESCE(delivery_address,''), COALESCE(notes,''), created_at
		FROM orders ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entities.Order
	for rows.Next() {
		var o entities.Order
		if err := rows.Scan(&o.ID, &o.TotalAmount, &o.Status, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.DeliveryAddress, &o.Notes, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	tag, err := r.db.Exec(ctx, "UPDATE orders SET status=$1 WHERE id=$2", status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", id)
	}
	return nil
}
