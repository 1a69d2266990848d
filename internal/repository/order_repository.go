package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hamdiks/cardstore/internal/model"
)

// OrderRepo provides persistence for orders. One checkout produces one row
// per cart line, all sharing a batch id, written inside the same
// transaction that resolved the customer account. Orders are immutable:
// there is no update or delete path.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying pool so the checkout handler can open the
// transaction spanning user resolution and order insertion.
func (r *OrderRepo) DB() *sql.DB { return r.db }

const orderCols = `id, batch_id, user_id, product_id, product_name, option_id,
	option_label, quantity, unit_price, payment_method, email, phone,
	transaction_number, order_time`

// CreateBatchTx inserts all rows of one checkout in a single multi-row
// statement within the provided transaction. Every row receives the same
// batch id and the same server-side timestamp, which is also written back
// onto the records. Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	now := time.Now().UTC()
	query := `INSERT INTO orders (batch_id, user_id, product_id, product_name, option_id,
		option_label, quantity, unit_price, payment_method, email, phone,
		transaction_number, order_time) VALUES `
	args := make([]interface{}, 0, len(orders)*13)
	for i, o := range orders {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		o.OrderTime = now
		args = append(args, o.BatchID, o.UserID, o.ProductID, o.ProductName, o.OptionID,
			o.OptionLabel, o.Quantity, o.UnitPrice, o.Payment, o.Email, o.Phone,
			o.TxNumber, o.OrderTime)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	// MySQL returns the first generated id of a multi-row insert; the rest
	// follow consecutively within one statement.
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i, o := range orders {
		o.ID = uint64(first) + uint64(i)
	}
	return nil
}

func scanOrders(rows *sql.Rows) ([]*model.Order, error) {
	defer rows.Close()
	var out []*model.Order
	for rows.Next() {
		o := new(model.Order)
		if err := rows.Scan(&o.ID, &o.BatchID, &o.UserID, &o.ProductID, &o.ProductName,
			&o.OptionID, &o.OptionLabel, &o.Quantity, &o.UnitPrice, &o.Payment,
			&o.Email, &o.Phone, &o.TxNumber, &o.OrderTime); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every order, newest first, for the back office.
func (r *OrderRepo) ListAll(ctx context.Context) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderCols+" FROM orders ORDER BY order_time DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

// ListByEmail returns the orders placed under one normalized email,
// newest first.
func (r *OrderRepo) ListByEmail(ctx context.Context, email string) ([]*model.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE email = ? ORDER BY order_time DESC, id DESC",
		email)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}
