package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/dmitrijs2005/cyberspace/internal/server/auth"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
	"github.com/dmitrijs2005/cyberspace/internal/server/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	rm       *fakeRepoManager
	store    *fakeStore
	notifier *fakeNotifier
	svc      *UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	rm := newFakeRepoManager()
	st := newFakeStore()
	n := &fakeNotifier{}
	creds := NewCredentialStore(nil, rm, testHasher())
	svc := NewUserService(nil, rm, creds, auth.NewIssuer([]byte("k"), time.Hour), st, n, logging.NewNop())
	svc.async = func(f func()) { f() }
	return &userFixture{rm: rm, store: st, notifier: n, svc: svc}
}

func registerInput(email, mobile string) RegisterInput {
	return RegisterInput{
		FirstName: "Ada", LastName: "Lovelace", Email: email, MobileNumber: mobile,
		CollegeName: "Analytical", Password: []byte("Secret1!"),
	}
}

func TestRegister_WithImageAndWelcome(t *testing.T) {
	f := newUserFixture(t)

	in := registerInput("ada@example.org", "5550001")
	in.Image = &Upload{Name: "me.JPG", Body: strings.NewReader("jpeg")}

	u, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, u.ImageFilename)
	assert.Equal(t, "jpeg", f.store.saved[*u.ImageFilename])

	sent := f.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindWelcome, sent[0].kind)
	assert.Equal(t, "Ada", sent[0].params["name"])
}

func TestRegister_RejectsImageType(t *testing.T) {
	f := newUserFixture(t)

	in := registerInput("ada@example.org", "5550001")
	in.Image = &Upload{Name: "me.png", Body: strings.NewReader("png")}

	_, err := f.svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, common.ErrUnsupportedExtension)
	assert.Empty(t, f.rm.u.byID)
	assert.Empty(t, f.notifier.all())
}

func TestRegister_DuplicateRemovesImage(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerInput("ada@example.org", "5550001"))
	require.NoError(t, err)

	in := registerInput("ada@example.org", "5550002")
	in.Image = &Upload{Name: "me.jpg", Body: strings.NewReader("jpeg")}
	_, err = f.svc.Register(ctx, in)
	assert.ErrorIs(t, err, common.ErrDuplicateIdentity)

	assert.Empty(t, f.store.saved)
	assert.Len(t, f.store.deleted, 1)
	assert.Len(t, f.notifier.all(), 1)
}

func TestRegister_WelcomeFailureIsNotFatal(t *testing.T) {
	f := newUserFixture(t)
	f.notifier.err = errors.New("smtp down")

	_, err := f.svc.Register(context.Background(), registerInput("ada@example.org", "5550001"))
	assert.NoError(t, err)
}

func TestLoginAndAuthenticate(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, registerInput("ada@example.org", "5550001"))
	require.NoError(t, err)

	tok, err := f.svc.Login(ctx, "ada@example.org", []byte("Secret1!"))
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	id, err := f.svc.Authenticate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = f.svc.Login(ctx, "ada@example.org", []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = f.svc.Authenticate(tok.Token + "x")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, registerInput("ada@example.org", "5550001"))
	require.NoError(t, err)
	f.rm.r.counts = &models.RegistrationCounts{Internships: 1, Seminars: 2, Webinars: 0, ResearchPapers: 3}

	p, err := f.svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", p.Email)
	assert.Equal(t, 2, p.Seminars)
	assert.Equal(t, 3, p.ResearchPapers)

	_, err = f.svc.Profile(ctx, 404)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
