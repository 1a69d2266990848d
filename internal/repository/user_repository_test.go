package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry 'a@b.tn' for key 'users.email'")))
	assert.False(t, isDuplicateKey(errors.New("Error 1054 (42S22): Unknown column")))
	assert.False(t, isDuplicateKey(nil))
}

var userTestCols = []string{"id", "username", "email", "password_hash", "is_admin",
	"phone", "avatar", "created_at", "updated_at"}

func TestFindOrCreateTxReturnsExistingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email=\? LIMIT 1$`).
		WithArgs("buyer@shop.tn").
		WillReturnRows(sqlmock.NewRows(userTestCols).
			AddRow(3, "buyer", "buyer@shop.tn", "$2b$10$x", false, "", "", now, now))

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	u, created, err := NewUserRepo(db).FindOrCreateTx(context.Background(), tx, " Buyer@Shop.TN ", 4)
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint64(3), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two checkouts racing on the same new email: the loser's INSERT hits the
// unique index after the winner commits. Because the loser's first SELECT
// already fixed the transaction's snapshot, the recovery read has to be a
// locking read to see the winner's row; a plain re-read would come back
// empty and fail the order.
func TestFindOrCreateTxLoserAdoptsWinnerRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email=\? LIMIT 1$`).
		WithArgs("new@shop.tn").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("new", "new@shop.tn", sqlmock.AnyArg()).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'new@shop.tn' for key 'users.email'"))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email=\? LIMIT 1 FOR UPDATE`).
		WithArgs("new@shop.tn").
		WillReturnRows(sqlmock.NewRows(userTestCols).
			AddRow(11, "new", "new@shop.tn", "$2b$10$y", false, "", "", now, now))

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	u, created, err := NewUserRepo(db).FindOrCreateTx(context.Background(), tx, "new@shop.tn", 4)
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint64(11), u.ID)
	assert.Equal(t, "new@shop.tn", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateTxCreatesAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email=\? LIMIT 1$`).
		WithArgs("new@shop.tn").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("new", "new@shop.tn", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email=\? LIMIT 1$`).
		WithArgs("new@shop.tn").
		WillReturnRows(sqlmock.NewRows(userTestCols).
			AddRow(12, "new", "new@shop.tn", "$2b$10$z", false, "", "", now, now))

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	u, created, err := NewUserRepo(db).FindOrCreateTx(context.Background(), tx, "new@shop.tn", 4)
	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint64(12), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
