package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	usererrors "go-hrms/internal/user/errors"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	FindAllEmployees(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	CountEmployees(ctx context.Context) (int64, error)
	DebitLeaveBalance(ctx context.Context, id string, days int) (int, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", strings.TrimSpace(email)).
		First(&u).Error
	return &u, err
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindAllEmployees(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("role = ?", RoleEmployee).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("role = ?", RoleEmployee).
		Count(&count).Error
	return count, err
}

// DebitLeaveBalance decrements the balance in a single conditional UPDATE
// so the sufficiency check can never go stale between read and write.
// Returns the remaining balance, or INSUFFICIENT_BALANCE carrying the
// available day count when the guard fails.
func (r *repository) DebitLeaveBalance(ctx context.Context, id string, days int) (int, error) {
	exec := r.execer()
	if exec == nil {
		return 0, errors.New("no database connection")
	}

	var remaining int
	err := exec.QueryRowContext(ctx, `
		UPDATE users
		SET leave_balance = leave_balance - $1, updated_at = now()
		WHERE id = $2 AND leave_balance >= $1
		RETURNING leave_balance
	`, days, id).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// Guard failed: either the user is missing or the balance is short.
	var available int
	err = exec.QueryRowContext(ctx,
		`SELECT leave_balance FROM users WHERE id = $1`, id,
	).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, usererrors.ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return 0, usererrors.NewInsufficientBalance(available)
}
