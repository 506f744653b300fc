// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// services to distinguish between different failure scenarios without
// inspecting driver specific errors.  ErrNotFound replaces sql.ErrNoRows so
// that callers never import database/sql just to compare errors, and
// ErrConflict signals a uniqueness violation reported by MySQL.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by primary or natural key
// matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update would violate a UNIQUE
// index, such as registering the same email twice or inserting a second
// attendee row for the same (event, user) pair.
var ErrConflict = errors.New("conflict")

// mysqlDuplicateEntry is the server error number for ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// translate maps driver errors onto the package sentinels.  Any other
// error is returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return ErrConflict
	}
	return err
}

// affectedOrNotFound converts a zero RowsAffected count into ErrNotFound.
func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
