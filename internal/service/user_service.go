package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stockfolio/backend/internal/model"
	"stockfolio/backend/internal/repository"
	"stockfolio/backend/internal/service/token"
)

type UserService struct {
	users  *repository.UserRepository
	tokens *token.Issuer
}

func NewUserService(users *repository.UserRepository, tokens *token.Issuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Pan      string
	Password string
	Role     string
	Photo    string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	for _, field := range []string{in.Name, in.Username, in.Email, in.Pan, in.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("%w: all fields are required", ErrBadRequest)
		}
	}

	role := model.Role(in.Role)
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: invalid role %q", ErrBadRequest, in.Role)
	}

	exists, err := s.users.Exists(ctx, in.Username, in.Email, in.Pan)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Username:     in.Username,
		Email:        strings.ToLower(in.Email),
		Pan:          in.Pan,
		Photo:        in.Photo,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.users.GetByID(ctx, user.ID)
}

// TokenPair is the access/renewal credential pair issued on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, TokenPair, error) {
	if email == "" || password == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: all fields are required", ErrBadRequest)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	// Reload so the response reflects the persisted state, holdings included.
	user, err = s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// issueTokens creates a fresh pair and overwrites the stored refresh token.
// A single renewal credential is active per user at any time.
func (s *UserService) issueTokens(ctx context.Context, user *model.User) (TokenPair, error) {
	access, err := s.tokens.NewAccessToken(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.NewRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.users.SetRefreshToken(ctx, userID, "")
}

// Refresh reissues a token pair from a valid renewal token. The presented
// token must match the one stored on the user row.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*model.User, TokenPair, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("%w: invalid or expired refresh token", ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, fmt.Errorf("%w: user does not exist", ErrUnauthorized)
		}
		return nil, TokenPair{}, err
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, TokenPair{}, fmt.Errorf("%w: refresh token has been revoked", ErrUnauthorized)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) AddMoney(ctx context.Context, userID string, amount int) (*model.User, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: invalid amount", ErrBadRequest)
	}
	if err := s.users.AddToWallet(ctx, userID, float64(amount)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
