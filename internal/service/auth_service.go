package service

import (
	"account-organizer/internal/config"
	"account-organizer/internal/models"
	"account-organizer/internal/repository"
	"account-organizer/internal/utils"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	errBadCredentials     = fmt.Errorf("%w: invalid username or password", models.ErrUnauthorized)
	errRegistrationClosed = fmt.Errorf("%w: registration is closed", models.ErrForbidden)
)

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(db *sqlx.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: repository.NewUserRepository(db),
		cfg:      cfg,
	}
}

func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: user account is inactive", models.ErrUnauthorized)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errBadCredentials
	}

	return s.issueTokens(*user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(refreshToken string) (*models.LoginResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: invalid refresh token", models.ErrUnauthorized)
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown user", models.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user account is inactive", models.ErrUnauthorized)
	}

	return s.issueTokens(*user)
}

func (s *AuthService) issueTokens(user models.User) (*models.LoginResponse, error) {
	accessToken, err := utils.GenerateAccessToken(user, s.cfg.JWTSecret, s.cfg.JWTAccessExpire)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user, s.cfg.JWTSecret, s.cfg.JWTRefreshExpire)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) GetUserByID(id int) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

// Register creates a user. Once the first user exists, further sign ups need
// AUTH_ALLOW_REGISTER, since every user can read every stored account.
func (s *AuthService) Register(req models.RegisterRequest) (*models.User, error) {
	if !s.cfg.AuthAllowRegister {
		total, err := s.userRepo.Count()
		if err != nil {
			return nil, err
		}
		if total > 0 {
			return nil, errRegistrationClosed
		}
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Name == "" || req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, username and password are required", models.ErrInvalidArgument)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", models.ErrInvalidArgument)
	}

	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, fmt.Errorf("%w: username already exists", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}
