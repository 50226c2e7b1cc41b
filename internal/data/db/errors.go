package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error classification for the few SQLSTATEs the services
// react to. Services map these onto their own sentinels; everything
// else passes through untouched.

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code)
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint
// violation. Used where a pre-check races with a concurrent insert:
// duplicate emails at register, duplicate (assessment, item) rows.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pgErrorCode(err) == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// IsForeignKeyViolation reports whether err is a foreign key
// violation.
func IsForeignKeyViolation(err error) bool {
	return err != nil && pgErrorCode(err) == "23503"
}

// IsRetryable reports whether err is a transient serialization or
// lock failure worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch pgErrorCode(err) {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}
