package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/cyberspace/internal/client/client"
	"github.com/dmitrijs2005/cyberspace/internal/client/models"
)

// ActivityService runs the authenticated calls with the stored session token.
// An expired or rejected token clears the session so the user is prompted to
// log in again.
type ActivityService interface {
	Profile(ctx context.Context) (*models.Profile, error)
	RegisterEvent(ctx context.Context, kind models.EventKind, form models.Event) (*models.Created, error)
	RegisterInternship(ctx context.Context, form models.Internship) (*models.Created, error)
	SubmitPaper(ctx context.Context, form models.Paper) (*models.Created, error)
}

type activityService struct {
	client client.Client
	auth   AuthService
}

func NewActivityService(c client.Client, auth AuthService) ActivityService {
	return &activityService{client: c, auth: auth}
}

func withToken[T any](ctx context.Context, s *activityService, call func(token string) (T, error)) (T, error) {
	var zero T

	_, token, err := s.auth.Session(ctx)
	if err != nil {
		return zero, err
	}

	out, err := call(token)
	if errors.Is(err, client.ErrUnauthorized) {
		if lerr := s.auth.Logout(ctx); lerr != nil {
			return zero, errors.Join(err, lerr)
		}
		return zero, errors.Join(err, client.ErrNotLoggedIn)
	}
	return out, err
}

func (s *activityService) Profile(ctx context.Context) (*models.Profile, error) {
	return withToken(ctx, s, func(token string) (*models.Profile, error) {
		return s.client.Profile(ctx, token)
	})
}

func (s *activityService) RegisterEvent(ctx context.Context, kind models.EventKind, form models.Event) (*models.Created, error) {
	return withToken(ctx, s, func(token string) (*models.Created, error) {
		return s.client.RegisterEvent(ctx, token, kind, form)
	})
}

func (s *activityService) RegisterInternship(ctx context.Context, form models.Internship) (*models.Created, error) {
	return withToken(ctx, s, func(token string) (*models.Created, error) {
		return s.client.RegisterInternship(ctx, token, form)
	})
}

func (s *activityService) SubmitPaper(ctx context.Context, form models.Paper) (*models.Created, error) {
	return withToken(ctx, s, func(token string) (*models.Created, error) {
		return s.client.SubmitPaper(ctx, token, form)
	})
}
