package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hamdiks/cardstore/internal/model"
)

// OptionRepo provides CRUD operations for product options. An option is a
// purchasable variant of a product (a denomination or tier) with its own
// price. Option lifecycle is tied to but not cascade-enforced with the
// parent product: deleting an option is independent of deleting the product.
type OptionRepo struct {
	db *sql.DB
}

// NewOptionRepo returns a new OptionRepo bound to the given database.
func NewOptionRepo(db *sql.DB) *OptionRepo { return &OptionRepo{db: db} }

// ListByProduct returns all options of a product ordered by ascending id,
// which keeps the admin's insertion order as the storefront display order.
func (r *OptionRepo) ListByProduct(ctx context.Context, productID uint64) ([]*model.Option, error) {
	const q = `SELECT id, product_id, label, price, description
	           FROM product_options WHERE product_id = ? ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Option
	for rows.Next() {
		o := new(model.Option)
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Label, &o.Price, &o.Description); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single option. Returns ErrOptionNotFound when missing.
func (r *OptionRepo) GetByID(ctx context.Context, id uint64) (*model.Option, error) {
	const q = "SELECT id, product_id, label, price, description FROM product_options WHERE id = ?"
	o := new(model.Option)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&o.ID, &o.ProductID, &o.Label, &o.Price, &o.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return o, nil
}

// CreateBulkTx inserts multiple option rows in a single statement within
// the provided transaction. All rows are attached to the same product.
// Passing an empty slice has no effect and returns nil.
func (r *OptionRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, productID uint64, opts []*model.Option) error {
	if len(opts) == 0 {
		return nil
	}
	query := `INSERT INTO product_options (product_id, label, price, description) VALUES `
	args := make([]interface{}, 0, len(opts)*4)
	for i, o := range opts {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, productID, o.Label, o.Price, o.Description)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// UpdateTx updates one option's fields within an existing transaction.
// The product update endpoint bulk-updates every surviving option this way
// so a product edit is all-or-nothing.
func (r *OptionRepo) UpdateTx(ctx context.Context, tx *sql.Tx, o *model.Option) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE product_options SET label=?, price=?, description=? WHERE id=?",
		o.Label, o.Price, o.Description, o.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM product_options WHERE id=?", o.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOptionNotFound
			}
			return err
		}
	}
	return nil
}

// Update updates one option outside of any transaction (single-row write).
func (r *OptionRepo) Update(ctx context.Context, o *model.Option) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := r.UpdateTx(ctx, tx, o); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Delete removes a single option by id.
func (r *OptionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM product_options WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOptionNotFound
	}
	return nil
}

// DeleteByProductTx removes every option of a product within a transaction.
// Used when an admin deletes a product together with its variants.
func (r *OptionRepo) DeleteByProductTx(ctx context.Context, tx *sql.Tx, productID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM product_options WHERE product_id = ?", productID)
	return err
}
