package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/anihub/anihub-api/internal/domain/user"
	"github.com/anihub/anihub-api/internal/pkg/jwt"
	"github.com/anihub/anihub-api/internal/pkg/password"
)

// Service handles account registration and login
type Service struct {
	userRepo user.Repository
	jwtSvc   *jwt.Service
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtSvc *jwt.Service) *Service {
	return &Service{userRepo: userRepo, jwtSvc: jwtSvc}
}

// Register creates a new account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*user.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	if req.Email != "" {
		existing, err = s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if req.Email != "" {
		u.Email = sql.NullString{String: req.Email, Valid: true}
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues an access token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (string, error) {
	u, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return "", err
	}
	if u == nil || !password.Verify(req.Password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	if u.IsBanned {
		return "", ErrUserBanned
	}

	return s.jwtSvc.GenerateAccessToken(u.ID, u.Username, u.IsAdmin, u.IsBanned)
}

// Me resolves the authenticated actor's account
func (s *Service) Me(ctx context.Context, userID int64) (*user.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
