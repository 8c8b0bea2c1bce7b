package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/user"
	usererrors "go-hrms/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	GetMe(ctx context.Context, userID string) (UserPayload, error)
}

type service struct {
	users  user.Repository
	logger *zap.Logger
}

func NewService(users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = user.RoleEmployee
	}
	department := req.Department
	if department == "" {
		department = "General"
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		Password:     string(hashed),
		Role:         role,
		Department:   department,
		LeaveBalance: user.DefaultLeaveBalance,
	}

	if err := s.users.Create(ctx, u); err != nil {
		// The unique index on email is the authority; the pre-check only
		// exists for a friendlier error on the common path.
		s.logger.Warn("register create failed", zap.Error(err))
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	token, err := s.generateToken(u.ID.String(), u.Role)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return AuthResponse{Token: token, User: mapToPayload(*u)}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(u.ID.String(), u.Role)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID.String()))
	return AuthResponse{Token: token, User: mapToPayload(*u)}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (UserPayload, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return UserPayload{}, usererrors.ErrInvalidUserID
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return UserPayload{}, usererrors.ErrUserNotFound
	}
	return mapToPayload(*u), nil
}

func (s *service) generateToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
