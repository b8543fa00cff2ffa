package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	apperrors "gostay/internal/errors"
	"gostay/internal/logger"
	"gostay/internal/models"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type authCache interface {
	StoreUserAuth(ctx context.Context, email, passwordHash string, userID int64) error
}

type UserService struct {
	users userStore
	cache authCache
}

func NewUserService(users userStore, cache authCache) *UserService {
	return &UserService{
		users: users,
		cache: cache,
	}
}

// Register creates a new account with a hashed password
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email is already registered: %w", apperrors.ErrValidation)
	}

	passwordHash := HashPassword(req.Password)
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &passwordHash,
		Role:         models.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Cache warm-up is best effort, auth falls back to the database
	if s.cache != nil {
		if err := s.cache.StoreUserAuth(ctx, user.Email, passwordHash, user.ID); err != nil {
			logger.WithContext(ctx).Error("Failed to cache user credentials",
				"error", err,
				"user_id", user.ID)
		}
	}

	return &models.RegisterResponse{
		ID:    user.ID,
		Email: user.Email,
	}, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	return user, nil
}

// HashPassword is the scheme shared with the auth middleware
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
