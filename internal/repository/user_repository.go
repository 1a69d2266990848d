package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hamdiks/cardstore/internal/model"
	"github.com/hamdiks/cardstore/internal/utils"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the underlying connection pool so handlers can open
// transactions spanning multiple repositories.
func (r *UserRepo) DB() *sql.DB { return r.db }

const userCols = "id,username,email,password_hash,is_admin,phone,avatar,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin,
		&u.Phone, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts user and returns its ID. The email is normalized and the
// password hashed here so every caller gets the same treatment.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?,?,?)",
		username, email, hash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// UpdatePassword replaces the stored hash for one user.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindOrCreateTx resolves an email address to a user id inside an existing
// transaction, creating the account when none exists yet. Checkout uses it
// so an order from a new customer atomically creates their account in the
// same commit as the order rows.
//
// Implicitly created accounts get the email's local part as username and a
// random bcrypt-hashed throwaway password nobody knows. When two checkouts
// race on the same new email, the loser's INSERT hits the unique index on
// users.email; it then re-reads and proceeds with the winner's row instead
// of failing the order. The recovery read is a locking read (FOR UPDATE):
// under REPEATABLE READ the transaction's snapshot was fixed by the first
// SELECT, before the winner committed, so a plain re-read would still see
// no row. The returned bool reports whether this call created the account.
func (r *UserRepo) FindOrCreateTx(ctx context.Context, tx *sql.Tx, email string, cost int) (model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	sel := func(lock bool) (model.User, error) {
		q := "SELECT " + userCols + " FROM users WHERE email=? LIMIT 1"
		if lock {
			q += " FOR UPDATE"
		}
		var u model.User
		err := tx.QueryRowContext(ctx, q, email).
			Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin,
				&u.Phone, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
		return u, err
	}

	u, err := sel(false)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, false, err
	}

	username := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		username = email[:i]
	}
	password, err := utils.RandomPassword()
	if err != nil {
		return model.User{}, false, err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, false, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?,?,?)",
		username, email, hash)
	if err != nil {
		if isDuplicateKey(err) {
			// Lost the race: another transaction created the account first.
			u, err := sel(true)
			if err != nil {
				return model.User{}, false, err
			}
			return u, false, nil
		}
		return model.User{}, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, false, err
	}
	u, err = sel(false)
	if err != nil {
		return model.User{ID: uint64(id)}, false, err
	}
	return u, true, nil
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
