package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"go.uber.org/zap"
)

const (
	insertUserQuery = `
INSERT INTO users (username, email, full_name, mobile_number, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, username, email, full_name, mobile_number, password_hash, created_at;`

	selectUserQuery = `
SELECT id, username, email, full_name, mobile_number, password_hash, created_at
FROM users
WHERE id = $1;`

	userExistsQuery = `
SELECT EXISTS (SELECT 1 FROM users WHERE id = $1);`
)

type UserRepository struct {
	db  queryExecutor
	log *zap.Logger
}

func NewUserRepository(db queryExecutor, log *zap.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
	}
}

func (r *UserRepository) Create(ctx context.Context, d *dto.CreateUserDTO) (*domain.User, error) {
	r.log.Info("create user", zap.String("username", d.Username))

	user, err := scanUser(r.db.QueryRow(ctx, insertUserQuery,
		d.Username,
		d.Email,
		d.FullName,
		d.MobileNumber,
		d.PasswordHash,
	))
	if err != nil {
		r.log.Error("failed to insert user", zap.String("username", d.Username), zap.Error(err))
		return nil, handleDBError(err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, selectUserQuery, id))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error("failed to read user", zap.Int64("user_id", id), zap.Error(err))
		}
		return nil, handleDBError(err)
	}
	return user, nil
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.log.Debug("check user exists", zap.Int64("user_id", id))

	var exists bool
	if err := r.db.QueryRow(ctx, userExistsQuery, id).Scan(&exists); err != nil {
		r.log.Error("failed to check user existence",
			zap.Int64("user_id", id),
			zap.Error(err),
		)
		return false, handleDBError(err)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.MobileNumber,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
