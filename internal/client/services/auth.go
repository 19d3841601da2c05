// Package services contains the application services of the dealerctl
// client: sign-in against the API with a persisted session, and the
// Details → Payment → Confirmation checkout flow.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/cryptox"
)

// AuthAPI is the part of the API client the auth service needs.
type AuthAPI interface {
	Register(ctx context.Context, name, email, password string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Ping(ctx context.Context) error
}

// SessionStore persists the signed-in identity.
type SessionStore interface {
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
	Current() *models.Session
}

type AuthService struct {
	api     AuthAPI
	session SessionStore
}

func NewAuthService(api AuthAPI, s SessionStore) *AuthService {
	return &AuthService{api: api, session: s}
}

// Register creates an account and signs in as it.
func (a *AuthService) Register(ctx context.Context, name, email string, password []byte) (*models.Session, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrorValidation)
	}
	if len(password) < cryptox.MinPasswordLength {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, cryptox.ErrPasswordTooShort)
	}

	s, err := a.api.Register(ctx, name, email, string(password))
	if err != nil {
		return nil, err
	}
	return s, a.session.Save(ctx, s)
}

// Login signs in and persists the session.
func (a *AuthService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	s, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}
	return s, a.session.Save(ctx, s)
}

func (a *AuthService) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}

// Current returns the signed-in identity, or nil.
func (a *AuthService) Current() *models.Session {
	return a.session.Current()
}

func (a *AuthService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}
