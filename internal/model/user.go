package model

import "time"

// User represents an account in the `users` table. The password hash is
// excluded from every JSON rendering; responses that need user data use
// Sanitized instead of exposing the struct raw.
//
// Fields:
//  ID           – primary key identifier.
//  FirstName    – given name (2–50 chars).
//  LastName     – family name (2–50 chars).
//  Email        – unique login email (5–255 chars).
//  PasswordHash – bcrypt hash of the raw password.
//  Admin        – elevated privilege flag gating garage/spot mutation.
type User struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot copies the name fields that vehicles embed at write time.
func (u User) Snapshot() UserSnapshot {
	return UserSnapshot{FirstName: u.FirstName, LastName: u.LastName}
}

// SanitizedUser is the public rendering of a user record.
type SanitizedUser struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Admin     bool   `json:"admin"`
}

// Sanitized strips everything but the public fields.
func (u User) Sanitized() SanitizedUser {
	return SanitizedUser{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Admin: u.Admin}
}

// Registration is the payload for self-registration. The raw password is
// bounded before hashing; only its bcrypt hash is ever persisted.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ValidateRegistration checks a registration payload, first failure only.
func ValidateRegistration(r Registration) error {
	if err := strLen("first_name", r.FirstName, 2, 50, true); err != nil {
		return err
	}
	if err := strLen("last_name", r.LastName, 2, 50, true); err != nil {
		return err
	}
	if err := strLen("email", r.Email, 5, 255, true); err != nil {
		return err
	}
	if err := emailShape("email", r.Email); err != nil {
		return err
	}
	return strLen("password", r.Password, 5, 1024, true)
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateCredentials checks a login payload.
func ValidateCredentials(cr Credentials) error {
	if err := strLen("email", cr.Email, 5, 255, true); err != nil {
		return err
	}
	if err := emailShape("email", cr.Email); err != nil {
		return err
	}
	return strLen("password", cr.Password, 5, 1024, true)
}

// UserUpdate carries a partial name update; email, password and the admin
// flag are not settable through it.
type UserUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ValidateUserUpdate checks the name fields present in a partial update.
func ValidateUserUpdate(u UserUpdate) error {
	if u.FirstName != nil {
		if err := strLen("first_name", *u.FirstName, 2, 50, true); err != nil {
			return err
		}
	}
	if u.LastName != nil {
		if err := strLen("last_name", *u.LastName, 2, 50, true); err != nil {
			return err
		}
	}
	return nil
}

// Fields flattens a partial name update into column/value pairs.
func (u UserUpdate) Fields() map[string]any {
	m := map[string]any{}
	if u.FirstName != nil {
		m["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		m["last_name"] = *u.LastName
	}
	return m
}
