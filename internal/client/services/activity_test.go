package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/cyberspace/internal/client/client"
	"github.com/dmitrijs2005/cyberspace/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedIn(t *testing.T, fc *fakeClient) (AuthService, ActivityService) {
	t.Helper()
	fc.LoginToken = "tok"
	auth := NewAuthService(fc, setupDB(t))
	require.NoError(t, auth.Login(context.Background(), "ada@example.com", []byte("pw")))
	return auth, NewActivityService(fc, auth)
}

func TestActivity_UsesStoredToken(t *testing.T) {
	fc := &fakeClient{}
	_, svc := loggedIn(t, fc)
	ctx := context.Background()

	p, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Seminars)
	assert.Equal(t, "tok", fc.LastToken)

	out, err := svc.RegisterEvent(ctx, models.Seminar, models.Event{Topic: "Go"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	assert.Equal(t, models.Seminar, fc.LastKind)

	out, err = svc.RegisterInternship(ctx, models.Internship{})
	require.NoError(t, err)
	assert.Equal(t, int64(11), out.ID)

	out, err = svc.SubmitPaper(ctx, models.Paper{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), out.ID)
}

func TestActivity_NotLoggedIn(t *testing.T) {
	fc := &fakeClient{}
	svc := NewActivityService(fc, NewAuthService(fc, setupDB(t)))

	_, err := svc.Profile(context.Background())
	require.ErrorIs(t, err, client.ErrNotLoggedIn)
	assert.Empty(t, fc.LastToken, "no call without a session")
}

func TestActivity_RejectedTokenClearsSession(t *testing.T) {
	fc := &fakeClient{}
	auth, svc := loggedIn(t, fc)
	fc.CallErr = client.ErrUnauthorized

	_, err := svc.Profile(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.ErrorIs(t, err, client.ErrNotLoggedIn)

	_, _, err = auth.Session(context.Background())
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}
