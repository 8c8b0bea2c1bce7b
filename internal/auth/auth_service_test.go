package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"go-hrms/internal/auth"
	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	createFn     func(ctx context.Context, u *user.User) error
	getByEmailFn func(ctx context.Context, email string) (*user.User, error)
	getByIDFn    func(ctx context.Context, id string) (*user.User, error)
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository { return f }

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindAllEmployees(ctx context.Context) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	return nil
}

func (f *fakeUserRepository) CountEmployees(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeUserRepository) DebitLeaveBalance(ctx context.Context, id string, days int) (int, error) {
	return 0, nil
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success with defaults", func(t *testing.T) {
		repo := &fakeUserRepository{}
		var created *user.User
		repo.createFn = func(ctx context.Context, u *user.User) error {
			created = u
			return nil
		}

		svc := auth.NewService(repo)
		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Dina",
			Email:    "  Dina@Example.com ",
			Password: "secret123",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, "dina@example.com", created.Email)
		assert.Equal(t, user.RoleEmployee, created.Role)
		assert.Equal(t, "General", created.Department)
		assert.Equal(t, user.DefaultLeaveBalance, created.LeaveBalance)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))

		// Token carries the identity claims.
		token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (any, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, created.ID.String(), claims["user_id"])
		assert.Equal(t, user.RoleEmployee, claims["role"])

		assert.Equal(t, "dina@example.com", resp.User.Email)
	})

	t.Run("negative email already registered", func(t *testing.T) {
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return &user.User{ID: uuid.New(), Email: email}, nil
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Dina",
			Email:    "dina@example.com",
			Password: "secret123",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("success keeps requested admin role", func(t *testing.T) {
		repo := &fakeUserRepository{}
		var created *user.User
		repo.createFn = func(ctx context.Context, u *user.User) error {
			created = u
			return nil
		}

		svc := auth.NewService(repo)
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name:       "Root",
			Email:      "root@example.com",
			Password:   "secret123",
			Role:       user.RoleAdmin,
			Department: "Operations",
		})

		assert.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, created.Role)
		assert.Equal(t, "Operations", created.Department)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)

	stored := &user.User{
		ID:       uuid.New(),
		Name:     "Dina",
		Email:    "dina@example.com",
		Password: string(hashed),
		Role:     user.RoleEmployee,
	}

	t.Run("success", func(t *testing.T) {
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				assert.Equal(t, "dina@example.com", email)
				return stored, nil
			},
		}

		svc := auth.NewService(repo)
		resp, err := svc.Login(ctx, "Dina@Example.com", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, stored.ID.String(), resp.User.ID)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return stored, nil
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Login(ctx, "dina@example.com", "wrong")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		repo := &fakeUserRepository{}

		svc := auth.NewService(repo)
		_, err := svc.Login(ctx, "nobody@example.com", "secret123")

		// Unknown email and wrong password are indistinguishable.
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		stored := &user.User{
			ID:           uuid.New(),
			Name:         "Dina",
			Email:        "dina@example.com",
			Role:         user.RoleEmployee,
			Department:   "General",
			LeaveBalance: 17,
		}
		repo := &fakeUserRepository{
			getByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				assert.Equal(t, stored.ID.String(), id)
				return stored, nil
			},
		}

		svc := auth.NewService(repo)
		resp, err := svc.GetMe(ctx, stored.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "dina@example.com", resp.Email)
		assert.Equal(t, 17, resp.LeaveBalance)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{})
		_, err := svc.GetMe(ctx, "not-a-uuid")
		assert.Error(t, err)
	})
}
