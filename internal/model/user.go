package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
// A user is created explicitly through signup or implicitly when an
// order arrives for an email address with no matching account.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name; defaults to the email local part for
//                 accounts created during checkout.
//  Email        – unique email address, stored lowercased.
//  PasswordHash – bcrypt hashed password.
//  IsAdmin      – whether the account may reach the back office.
//  Phone        – contact phone number (may be empty).
//  Avatar       – relative path of the profile image (may be empty).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    IsAdmin      bool      // users.is_admin
    Phone        string    // users.phone
    Avatar       string    // users.avatar
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
