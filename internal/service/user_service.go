package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
	"github.com/PAUBookIt/book-it-backend/internal/repository"
	"github.com/PAUBookIt/book-it-backend/pkg/auth"
	"github.com/PAUBookIt/book-it-backend/pkg/config"
	"github.com/PAUBookIt/book-it-backend/pkg/logger"
)

type UserService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewUserService(userRepo repository.UserRepository, config *config.Config) UserService {
	return &userService{
		userRepo: userRepo,
		config:   config,
	}
}

func (s *userService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(s.config.Auth.MinPasswordLength); err != nil {
		return nil, err
	}

	if d := s.config.Auth.AllowedEmailDomain; d != "" && !strings.HasSuffix(req.Email, "@"+d) {
		return nil, fmt.Errorf("%w: must use a @%s address", domain.ErrInvalidEmailDomain, d)
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Role/sub-type consistency was already checked by Validate, so the
	// parses below cannot fail.
	role, _ := domain.ParseRole(req.Role)
	user := &domain.User{
		Role:         role,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}
	switch role {
	case domain.RoleAdmin:
		at, _ := domain.ParseAdminType(req.SubType)
		user.AdminType = &at
	case domain.RoleNormal:
		nt, _ := domain.ParseNormalUserType(req.SubType)
		user.NormalType = &nt
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "User registered", "user_id", created.ID, "role", created.Role, "sub_type", created.SubType())
	return created, nil
}

func (s *userService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.WarnContext(ctx, "Failed to record last login", "error", err, "user_id", user.ID)
	}

	accessToken, err := auth.NewAccessToken(
		user.ID,
		user.Email,
		string(user.Role),
		user.SubType(),
		s.config.Auth.JWTSecret,
		s.config.Auth.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &domain.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.Auth.AccessTokenTTL.Seconds()),
		User:        user.ToUserInfo(),
	}, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
