// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for products. A product groups one or
// more purchasable options; all multi-row writes (product + options) run
// inside a caller-provided transaction so partial catalog updates are never
// observable.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hamdiks/cardstore/internal/model"
)

// ProductRepo encapsulates all database queries related to products. It
// depends on a sql.DB connection which should be configured elsewhere.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// DB exposes the underlying pool for handlers that open transactions.
func (r *ProductRepo) DB() *sql.DB { return r.db }

const productCols = "id, name, price, description, img, type, stock, created_at, updated_at"

func scanProduct(scan func(dest ...any) error) (*model.Product, error) {
	p := new(model.Product)
	var stock sql.NullInt64
	if err := scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Img, &p.Type,
		&stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if stock.Valid {
		s := stock.Int64
		p.Stock = &s
	}
	return p, nil
}

// ListAll returns every product ordered by id. When typ is non-empty the
// result is restricted to products carrying that grouping tag.
func (r *ProductRepo) ListAll(ctx context.Context, typ string) ([]*model.Product, error) {
	q := "SELECT " + productCols + " FROM products"
	args := []any{}
	if typ != "" {
		q += " WHERE type = ?"
		args = append(args, typ)
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a product by its ID. It returns ErrProductNotFound if no
// row is found.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productCols+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// GetByName fetches a product by case-insensitive exact name match. Listing
// pages link to products by name, so the lookup must not care about casing.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*model.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productCols+" FROM products WHERE LOWER(name) = LOWER(?) LIMIT 1",
		strings.TrimSpace(name))
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// CreateTx inserts a new product within the scope of an existing
// transaction. It populates the generated ID on the provided record and
// returns any error from the database. The caller must commit or rollback
// the transaction after also inserting the initial option set.
func (r *ProductRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Product) error {
	const q = `INSERT INTO products (name, price, description, img, type, stock) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.Name, p.Price, p.Description, p.Img, p.Type, nullableStock(p.Stock))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// UpdateTx updates product fields within an existing transaction. The image
// column is only touched when img is non-empty so an update without a new
// upload keeps the prior image. It returns ErrProductNotFound when no row
// matches the id.
func (r *ProductRepo) UpdateTx(ctx context.Context, tx *sql.Tx, p *model.Product) error {
	q := "UPDATE products SET name=?, price=?, description=?, type=?, stock=?"
	args := []any{p.Name, p.Price, p.Description, p.Type, nullableStock(p.Stock)}
	if p.Img != "" {
		q += ", img=?"
		args = append(args, p.Img)
	}
	q += " WHERE id=?"
	args = append(args, p.ID)

	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update;
		// distinguish with a existence check so no-op updates still succeed.
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM products WHERE id=?", p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			return err
		}
	}
	return nil
}

// DeleteTx removes a product by id within an existing transaction. Options
// are not cascade-deleted; the caller removes them through the option
// repository under the same transaction.
func (r *ProductRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Statistics aggregates catalog and sales numbers for the admin dashboard.
type Statistics struct {
	TotalProducts int64   `json:"total_products"`
	AveragePrice  float64 `json:"average_price"`
	MostExpensive *struct {
		ID    uint64  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"most_expensive,omitempty"`
	LowestStock *struct {
		ID    uint64 `json:"id"`
		Name  string `json:"name"`
		Stock int64  `json:"stock"`
	} `json:"lowest_stock,omitempty"`
	MostPopular *struct {
		ID     uint64 `json:"id"`
		Name   string `json:"name"`
		Orders int64  `json:"orders"`
	} `json:"most_popular,omitempty"`
}

// GetStatistics computes the admin dashboard aggregates. Product price is a
// display string, so the average and the most-expensive ranking are taken
// over the numeric option prices instead; popularity counts order rows.
func (r *ProductRepo) GetStatistics(ctx context.Context) (*Statistics, error) {
	st := new(Statistics)

	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE((SELECT AVG(price) FROM product_options),0) FROM products").
		Scan(&st.TotalProducts, &st.AveragePrice); err != nil {
		return nil, err
	}

	var exp struct {
		ID    uint64
		Name  string
		Price float64
	}
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, o.price FROM products p
		JOIN product_options o ON o.product_id = p.id
		ORDER BY o.price DESC LIMIT 1`).Scan(&exp.ID, &exp.Name, &exp.Price)
	if err == nil {
		st.MostExpensive = &struct {
			ID    uint64  `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}{exp.ID, exp.Name, exp.Price}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var low struct {
		ID    uint64
		Name  string
		Stock int64
	}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, stock FROM products
		WHERE stock IS NOT NULL ORDER BY stock ASC LIMIT 1`).Scan(&low.ID, &low.Name, &low.Stock)
	if err == nil {
		st.LowestStock = &struct {
			ID    uint64 `json:"id"`
			Name  string `json:"name"`
			Stock int64  `json:"stock"`
		}{low.ID, low.Name, low.Stock}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var pop struct {
		ID     uint64
		Name   string
		Orders int64
	}
	err = r.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, COUNT(o.id) AS n FROM products p
		JOIN orders o ON o.product_id = p.id
		GROUP BY p.id, p.name ORDER BY n DESC LIMIT 1`).Scan(&pop.ID, &pop.Name, &pop.Orders)
	if err == nil {
		st.MostPopular = &struct {
			ID     uint64 `json:"id"`
			Name   string `json:"name"`
			Orders int64  `json:"orders"`
		}{pop.ID, pop.Name, pop.Orders}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return st, nil
}

func nullableStock(s *int64) any {
	if s == nil {
		return nil
	}
	return *s
}
