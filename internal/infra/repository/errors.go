package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
)

// Postgres SQLSTATE codes the store reacts to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver and gorm errors onto httperr kinds. notFound is
// returned for gorm.ErrRecordNotFound when given.
func translate(err error, notFound *httperr.Error) error {
	if err == nil {
		return nil
	}

	if _, ok := httperr.As(err); ok {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notFound != nil {
			return notFound
		}
		return httperr.NotFound("not_found", "record not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &httperr.Error{Kind: httperr.KindConflict, Code: "duplicate_value", Message: "a record with the same value already exists", Err: err}
		case pgForeignKeyViolation:
			return &httperr.Error{Kind: httperr.KindConflict, Code: "reference_violation", Message: "the record is referenced by, or references, another record", Err: err}
		}
	}

	return httperr.Internal("database_error", "database error", err)
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// Translate is translate for callers outside the package.
func Translate(err error, notFound *httperr.Error) error {
	return translate(err, notFound)
}
