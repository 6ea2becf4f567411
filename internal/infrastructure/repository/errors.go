package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrStaleVersion  = errors.New("stale version")

	// ErrMissingReference нарушение внешнего ключа, всегда вместе с ErrInvalidInput
	ErrMissingReference = errors.New("referenced row not found")
)

func handleDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return errors.Join(ErrAlreadyExists, err)
		case "23503":
			return errors.Join(ErrInvalidInput, ErrMissingReference, err)
		case "23502", "23514", "22001":
			return errors.Join(ErrInvalidInput, err)
		}
	}
	return err
}

// IsConstraintViolation сообщает, что ошибка пришла от ограничения схемы, а не от сбоя хранилища
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrInvalidInput)
}
