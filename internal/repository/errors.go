// Package repository contains the data access layer, separated from HTTP
// handlers. This file defines the sentinel errors shared across the
// repositories so handlers can map failures onto HTTP statuses without
// inspecting driver errors themselves.
package repository

import "errors"

// ErrNotFound is returned whenever a record addressed by id (or email,
// for the password reset flow) does not exist. Handlers translate it to
// HTTP 404.
var ErrNotFound = errors.New("record not found")

// ErrDuplicatePrefix is returned when creating (or, with the recheck
// policy enabled, updating) a garage whose prefix is already taken by
// another garage. Handlers translate it to HTTP 400.
var ErrDuplicatePrefix = errors.New("garage prefix already exists")

// ErrEmailExists is returned when registering a user with an email that is
// already taken. Handlers translate it to HTTP 400.
var ErrEmailExists = errors.New("email already exists")
