package services

import (
	"context"
	"errors"

	"evac-backend/internal/auth"
	"evac-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UserRepo is the slice of the user repository the auth service needs.
type UserRepo interface {
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService handles staff login.
type AuthService struct {
	Users  UserRepo
	JWT    *auth.JWTManager
	Logger *zap.Logger
}

func NewAuthService(users UserRepo, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwtManager, Logger: logger}
}

// Login verifies credentials and issues a JWT. A missing user and a wrong
// password report the same message.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrBadRequest("email and password are required")
	}

	user, err := s.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &APIError{Status: 401, Message: "invalid email or password"}
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, &APIError{Status: 401, Message: "invalid email or password"}
	}
	if !user.IsActive {
		return nil, &APIError{Status: 403, Message: "account is deactivated"}
	}

	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("user logged in", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return &models.AuthResponse{Token: token, User: user}, nil
}
