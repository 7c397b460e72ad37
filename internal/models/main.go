// Package models defines the core data structures for users and sessions.
package models

// User represents a user record held by the external user store.
// Records are immutable once created.
type User struct {
	// Username is the login name and unique key of the record.
	Username string
	// PasswordHash is the salted password hash in "<salt>:<hexdigest>" form.
	PasswordHash string
	// FirstName is the user's given name.
	FirstName string
	// LastName is the user's family name.
	LastName string
}

// Credentials carry a single login attempt. They are transient input
// and are never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionPayload is the data stored in the external session service
// for the lifetime of a session.
type SessionPayload struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
