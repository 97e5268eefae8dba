// Package services contains application services for the cyberspace CLI.
// This file holds the account service: sign-up, login with a locally kept
// session token, logout and the password reset round trip.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cyberspace/internal/client/client"
	"github.com/dmitrijs2005/cyberspace/internal/client/models"
	"github.com/dmitrijs2005/cyberspace/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/dbx"
)

// AuthService defines account operations for the CLI.
type AuthService interface {
	Register(ctx context.Context, form models.SignUp) (*models.Profile, error)
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code string, newPassword, confirmPassword []byte) error
	// Session returns the stored email and token, or client.ErrNotLoggedIn.
	Session(ctx context.Context) (email, token string, err error)
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db}
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *authService) Register(ctx context.Context, form models.SignUp) (*models.Profile, error) {
	return a.client.Register(ctx, form)
}

// Login authenticates against the server and stores the token and email in
// one transaction.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		if err := repo.Set(ctx, metadata.KeyAccessToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyEmail, []byte(email))
	})
}

// Logout forgets the local session. Tokens are not revocable server-side, so
// nothing is sent to the API.
func (a *authService) Logout(ctx context.Context) error {
	return a.getMetadataRepo(a.db).Clear(ctx)
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, code string, newPassword, confirmPassword []byte) error {
	return a.client.ResetPassword(ctx, code, newPassword, confirmPassword)
}

func (a *authService) Session(ctx context.Context) (string, string, error) {
	repo := a.getMetadataRepo(a.db)

	token, err := repo.Get(ctx, metadata.KeyAccessToken)
	if errors.Is(err, common.ErrorNotFound) {
		return "", "", client.ErrNotLoggedIn
	}
	if err != nil {
		return "", "", err
	}

	email, err := repo.Get(ctx, metadata.KeyEmail)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return "", "", err
	}
	return string(email), string(token), nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
