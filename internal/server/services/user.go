// Package services contains server-side business logic: accounts, the car
// catalog, checkout, sell requests and dashboard statistics. Services are
// transport-agnostic and report failures with the sentinels in common.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/cryptox"
	"github.com/dmitrijs2005/autodealer/internal/server/auth"
	"github.com/dmitrijs2005/autodealer/internal/server/config"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/repomanager"
)

// Session is what a successful register or login hands back.
type Session struct {
	User  *models.User
	Token string
}

// UserService handles registration, login and user administration.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a customer account and logs it in. Emails are stored
// lower-cased; a second account with the same email is rejected with
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	user, err := s.newUser(name, email, password, false)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: user already exists", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.session(u)
}

// Login verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.BurnCompare([]byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !cryptox.CheckPassword(user.PasswordHash, []byte(password)) {
		return nil, common.ErrInvalidCredentials
	}

	return s.session(user)
}

// ListUsers returns all accounts without password hashes.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// EnsureAdmin grants the admin flag to the account with email, creating the
// account with name and password first when it does not exist. It reports
// whether an account was created. This is the out-of-band path to admin
// rights; the REST API never sets the flag.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	repo := s.repomanager.Users(s.db)
	email = normalizeEmail(email)

	err := repo.SetAdmin(ctx, email, true)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, fmt.Errorf("error promoting user: %w", err)
	}

	user, err := s.newUser(name, email, password, true)
	if err != nil {
		return false, err
	}
	if _, err := repo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("error creating admin: %w", err)
	}
	return true, nil
}

// RevokeAdmin clears the admin flag of the account with email.
func (s *UserService) RevokeAdmin(ctx context.Context, email string) error {
	if err := s.repomanager.Users(s.db).SetAdmin(ctx, normalizeEmail(email), false); err != nil {
		return fmt.Errorf("error demoting user: %w", err)
	}
	return nil
}

// --- helpers below ---

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) newUser(name, email, password string, isAdmin bool) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooShort) || errors.Is(err, cryptox.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	return &models.User{Name: name, Email: email, PasswordHash: hash, IsAdmin: isAdmin}, nil
}

func (s *UserService) session(u *models.User) (*Session, error) {
	token, err := auth.GenerateToken(u.ID, u.Email, u.IsAdmin, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	u.PasswordHash = ""
	return &Session{User: u, Token: token}, nil
}
