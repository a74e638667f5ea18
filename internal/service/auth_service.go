package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Ocelots/config"
	"github.com/lshigami/Ocelots/internal/auth"
	"github.com/lshigami/Ocelots/internal/dto"
	"github.com/lshigami/Ocelots/internal/model"
	"github.com/lshigami/Ocelots/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	Me(userID uint) (*dto.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

func (s *authService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	user := model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Category:     req.Category,
		School:       req.School,
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(&user)
}

func (s *authService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) Me(userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	resp := userResponse(user)
	return &resp, nil
}

func (s *authService) issue(user *model.User) (*dto.AuthResponse, error) {
	token, err := auth.NewAccessToken(
		s.cfg.Auth.JWTSecret,
		s.cfg.Auth.JWTIssuer,
		time.Duration(s.cfg.Auth.TokenTTLH)*time.Hour,
		auth.Claims{UserID: user.ID, Email: user.Email, Role: user.Role},
	)
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: userResponse(user)}, nil
}

func userResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		Category: user.Category,
		School:   user.School,
	}
}
