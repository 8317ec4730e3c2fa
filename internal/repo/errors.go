package repo

import (
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicateIdentity is returned when signing up with an email that is already registered.
	ErrDuplicateIdentity = errors.New("user already exists")
	// ErrUserNotFound is returned when no identity matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotFoundOrNotOwned is returned when a record does not exist or belongs to
	// another identity. The two cases are deliberately indistinguishable.
	ErrNotFoundOrNotOwned = errors.New("record not found")
)

// isUniqueViolation recognises unique constraint failures from both supported drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
