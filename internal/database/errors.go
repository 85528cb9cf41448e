package database

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	apperrors "github.com/allisson/evently/internal/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry      = 1062
	mysqlForeignKeyViolation = 1452
)

// IsUniqueViolation reports whether err is a unique constraint violation from any of
// the supported drivers.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key violation from any of
// the supported drivers.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgForeignKeyViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlForeignKeyViolation
	}
	return false
}

// ClassifyError maps a driver error into the application taxonomy: unique and foreign key
// violations become ErrConflict, everything else becomes ErrPersistence.
func ClassifyError(err error, message string) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) || IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w: %w", message, apperrors.ErrConflict, err)
	}
	return apperrors.Persistence(err, message)
}
