package service

import (
	"errors"
	"fmt"

	"github.com/educado/backend/internal/model"
	"github.com/educado/backend/internal/pkg/security"
	"github.com/educado/backend/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type RegisterRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=150"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	IsInstructor bool   `json:"is_instructor"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenManager) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

func (s *AuthService) Register(req RegisterRequest) (*model.User, string, error) {
	if _, err := s.userRepo.GetByUsername(req.Username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsInstructor: req.IsInstructor,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return user, token, nil
}

func (s *AuthService) Login(req LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := security.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return user, token, nil
}
