package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	"github.com/sajhathali/sajhathali-api/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	id, email, password_hash, first_name, last_name, phone_number,
	aadhaar_number, address, city, state, pincode, latitude, longitude,
	avatar_url, role, status, created_at, updated_at, approved_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role, status string
	if err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.PhoneNumber,
		&u.AadhaarNumber, &u.Address, &u.City, &u.State, &u.Pincode, &u.Latitude, &u.Longitude,
		&u.AvatarURL, &role, &status, &u.CreatedAt, &u.UpdatedAt, &u.ApprovedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	u.Status = entity.Status(status)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (
			email, password_hash, first_name, last_name, phone_number,
			aadhaar_number, address, city, state, pincode, latitude, longitude,
			role, status, approved_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, u.PhoneNumber,
		u.AadhaarNumber, u.Address, u.City, u.State, u.Pincode, u.Latitude, u.Longitude,
		string(u.Role), string(u.Status), u.ApprovedAt)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetAuthView(ctx context.Context, id string) (*entity.AuthUser, error) {
	u := &entity.AuthUser{}
	var role, status string
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, role, status
		FROM users
		WHERE id = $1
	`, id)
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &role, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	u.Status = entity.Status(status)
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, first_name, last_name, phone_number, role, status,
		       created_at, updated_at, approved_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u := &entity.User{}
		var role, status string
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber,
			&role, &status, &u.CreatedAt, &u.UpdatedAt, &u.ApprovedAt); err != nil {
			return nil, err
		}
		u.Role = entity.Role(role)
		u.Status = entity.Status(status)
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateStatus is the compare-and-swap behind lifecycle transitions: the
// precondition is re-checked inside the write itself, so two concurrent
// approvals cannot both apply. approved_at always takes the caller's value;
// a nil approvedAt clears it, so a blocked account loses its approval mark.
func (r *UserRepository) UpdateStatus(ctx context.Context, id string, expect, next entity.Status, approvedAt *time.Time) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET status = $1, approved_at = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`, string(next), approvedAt, id, string(expect))
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET phone_number = $1, address = $2, city = $3, state = $4,
		    pincode = $5, latitude = $6, longitude = $7, avatar_url = $8,
		    updated_at = now()
		WHERE id = $9
	`, u.PhoneNumber, u.Address, u.City, u.State,
		u.Pincode, u.Latitude, u.Longitude, u.AvatarURL, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) HasSuperadmin(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)
	`, string(entity.RoleSuperadmin)).Scan(&exists)
	return exists, err
}

var _ repository.UserRepository = (*UserRepository)(nil)
