// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is the identity record for a registered account. The numeric ID is
// assigned by the store on creation and never changes afterwards; the email
// is unique across the system and matched case-sensitively at login.
type User struct {
	ID           int64     // Store-assigned identifier, immutable once set.
	Email        string    // Login identifier, unique, exact-match lookup.
	Name         string    // Optional display name, at most 255 characters.
	PasswordHash string    // Bcrypt hash of the password. Never the plaintext, never serialized.
	CreatedAt    time.Time // Timestamp of account creation.
	UpdatedAt    time.Time // Timestamp of the last modification.
}
