// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// UnknownUser is shown when an actor id cannot be resolved to a name.
const UnknownUser = "Unknown User"

// User is a row of the identity directory. Accounts are managed by the
// upstream auth service; this service only reads display names.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}
