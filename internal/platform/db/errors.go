package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	mysqlDuplicateEntry    = 1062
	postgresUniqueViolated = "23505"
	sqliteUniqueFailed     = "UNIQUE constraint failed"
)

// IsUniqueViolation reports whether err is a unique-constraint violation
// from any of the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresUniqueViolated
	}
	return strings.Contains(err.Error(), sqliteUniqueFailed)
}

// ViolatedField returns the first of columns named by the unique violation
// in err, or "" when none can be identified.
func ViolatedField(err error, columns ...string) string {
	if !IsUniqueViolation(err) {
		return ""
	}
	detail := err.Error()
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		detail = pgErr.ConstraintName + " " + pgErr.Detail
	}
	for _, col := range columns {
		if mentionsColumn(detail, col) {
			return col
		}
	}
	return ""
}

// mentionsColumn matches "table.col" (SQLite), "(col)" (Postgres detail)
// and "_col'" / "_col" index names (MySQL, Postgres constraints).
func mentionsColumn(msg, col string) bool {
	for _, pattern := range []string{"." + col, "(" + col + ")", "_" + col + "'", "_" + col + " ", "_" + col + "`"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return strings.HasSuffix(msg, "_"+col)
}
