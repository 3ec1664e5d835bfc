package postgres

import (
	"context"
	"database/sql"
	"time"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, name, COALESCE(avatar_url, ''), created_on, updated_on`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var createdOn, updatedOn time.Time
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.AvatarURL, &createdOn, &updatedOn); err != nil {
		return nil, notFound(err)
	}
	u.CreatedOn = stamp(createdOn)
	u.UpdatedOn = stamp(updatedOn)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, name, avatar_url, created_on, updated_on) 
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	logger.DatabaseCall("INSERT", "users", "email", u.Email)
	err := r.db.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.Name, u.AvatarURL, now, now).Scan(&u.ID)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	if err != nil {
		return err
	}
	u.CreatedOn = stamp(now)
	u.UpdatedOn = u.CreatedOn
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, avatar_url=$2, updated_on=$3 WHERE id=$4`
	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, u.Name, u.AvatarURL, now, u.ID)
	if err != nil {
		return err
	}
	u.UpdatedOn = stamp(now)
	return requireRow(res)
}
