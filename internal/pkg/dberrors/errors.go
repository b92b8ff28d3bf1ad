package dberrors

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MySQL server error numbers
const (
	myDuplicateEntry     = 1062
	myRowIsReferenced    = 1451
	myNoReferencedRow    = 1452
	myRowIsReferencedOld = 1217
)

// IsDuplicateKeyError reports whether err is a unique or primary key violation on any supported driver.
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == myDuplicateEntry
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return isLiteConstraint(liteErr, "UNIQUE constraint failed")
	}

	return false
}

// IsForeignKeyError reports whether err is a foreign key violation on any supported driver.
func IsForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case myRowIsReferenced, myNoReferencedRow, myRowIsReferencedOld:
			return true
		}
		return false
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		if liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return true
		}
		return isLiteConstraint(liteErr, "FOREIGN KEY constraint failed")
	}

	return false
}

// isLiteConstraint matches the primary SQLITE_CONSTRAINT code by message when
// extended result codes are off.
func isLiteConstraint(err *sqlite.Error, text string) bool {
	return err.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), text)
}
