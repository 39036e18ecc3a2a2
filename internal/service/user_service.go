package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/internal/repository"
)

// ── user errors ──

var (
	ErrUsernameExists = errors.New("username already exists")
	ErrInvalidRole    = errors.New("invalid role")
)

// UserService user administration
type UserService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.UserResponse, int64, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	if !model.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	password, err := generateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FullName:     req.FullName,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created", zap.String("username", user.Username), zap.String("role", user.Role))

	return &dto.CreateUserResponse{
		User:         toUserResponse(user),
		TempPassword: password,
	}, nil
}

var (
	passwordAdjectives = []string{"Fast", "Smart", "Bright", "Cool", "Super"}
	passwordNouns      = []string{"Worker", "Star", "Ship", "Metal", "Bolt"}
)

// generateTempPassword returns an easy to dictate password like "Bright-Bolt-407".
func generateTempPassword() (string, error) {
	adj, err := randomIndex(len(passwordAdjectives))
	if err != nil {
		return "", err
	}
	noun, err := randomIndex(len(passwordNouns))
	if err != nil {
		return "", err
	}
	num, err := randomIndex(900)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%d", passwordAdjectives[adj], passwordNouns[noun], 100+num), nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
