package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the application reacts to.
const (
	UniqueViolation     = "23505"
	NotNullViolation    = "23502"
	ForeignKeyViolation = "23503"
)

type causer interface {
	Cause() error
}

// IsCode reports whether err, anything it wraps, or its Cause() is a
// Postgres error carrying code.
func IsCode(err error, code string) bool {
	c, _ := find(err)
	return c == code
}

// Constraint returns the name of the violated constraint, if known.
func Constraint(err error) string {
	_, name := find(err)
	return name
}

func IsUniqueViolation(err error) bool {
	return IsCode(err, UniqueViolation)
}

func find(err error) (code, constraint string) {
	for depth := 0; err != nil && depth < 8; depth++ {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return pgErr.Code, pgErr.ConstraintName
		}
		c, ok := err.(causer)
		if !ok {
			return "", ""
		}
		err = c.Cause()
	}
	return "", ""
}
