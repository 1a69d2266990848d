// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting raw database errors. For example, ErrEmailExists signals
// a duplicate signup.
package repository

import "errors"

// ErrEmailExists is returned when an insert would violate the unique
// constraint on users.email. Handlers should translate this into an
// HTTP 409 response on signup; the order placement path instead
// re-reads the winning row and proceeds.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user matches the given id or email.
var ErrUserNotFound = errors.New("user not found")

// ErrProductNotFound is returned when a product cannot be found in the DB.
var ErrProductNotFound = errors.New("product not found")

// ErrOptionNotFound is returned when a product option cannot be found.
var ErrOptionNotFound = errors.New("product option not found")
