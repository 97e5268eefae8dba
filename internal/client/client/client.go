package client

import (
	"context"

	"github.com/dmitrijs2005/cyberspace/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, form models.SignUp) (*models.Profile, error)
	Login(ctx context.Context, email string, password []byte) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code string, newPassword, confirmPassword []byte) error
	Profile(ctx context.Context, token string) (*models.Profile, error)
	RegisterEvent(ctx context.Context, token string, kind models.EventKind, form models.Event) (*models.Created, error)
	RegisterInternship(ctx context.Context, token string, form models.Internship) (*models.Created, error)
	SubmitPaper(ctx context.Context, token string, form models.Paper) (*models.Created, error)
	Ping(ctx context.Context) error
}
