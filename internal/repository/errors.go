// Package repository defines error types that are reused across every
// repository.  These sentinel values allow handlers to distinguish between
// failure scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the addressed row does not exist or has been
// soft deleted.  Handlers translate it into a 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate it into a 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write violates a uniqueness constraint,
// such as a second account with the same email.  Handlers translate it
// into a 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a unique-key violation.  MySQL reports
// error 1062; SQLite (used in tests) reports "UNIQUE constraint failed".
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
