package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/cyberspace/internal/client/client"
	"github.com/dmitrijs2005/cyberspace/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInputs feeds answers to getSimpleText in order and passwords to
// getPassword in order.
func stubInputs(t *testing.T, answers []string, passwords ...string) {
	t.Helper()
	origST, origGP, origML := getSimpleText, getPassword, getMultiline

	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			t.Fatalf("unexpected prompt %q", prompt)
		}
		v := answers[0]
		answers = answers[1:]
		return v, nil
	}
	getMultiline = func(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
		return getSimpleText(r, prompt, w)
	}
	getPassword = func(string, io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, errors.New("no password")
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}

	t.Cleanup(func() {
		getSimpleText, getPassword, getMultiline = origST, origGP, origML
	})
}

func stubFiles(t *testing.T, files map[string]string) {
	t.Helper()
	orig := openFile
	openFile = func(name string) (io.ReadCloser, error) {
		body, ok := files[name]
		if !ok {
			return nil, errors.New("no such file")
		}
		return io.NopCloser(strings.NewReader(body)), nil
	}
	t.Cleanup(func() { openFile = orig })
}

type fakeAuth struct {
	signUp     *models.SignUp
	signUpBody string
	regErr     error

	loginEmail string
	loginPass  string
	loginErr   error

	logoutCalled bool
	logoutErr    error

	forgotEmail string
	forgotErr   error

	resetCode    string
	resetNew     string
	resetConfirm string
	resetErr     error

	sessionEmail string
	sessionErr   error
	pingErr      error
}

func (f *fakeAuth) Register(_ context.Context, form models.SignUp) (*models.Profile, error) {
	cp := form
	cp.Password = append([]byte(nil), form.Password...)
	f.signUp = &cp
	if form.Image != nil {
		b, _ := io.ReadAll(form.Image.Content)
		f.signUpBody = string(b)
	}
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.Profile{ID: 3, Email: form.Email}, nil
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) error {
	f.loginEmail, f.loginPass = email, string(password)
	return f.loginErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	return f.logoutErr
}

func (f *fakeAuth) ForgotPassword(_ context.Context, email string) error {
	f.forgotEmail = email
	return f.forgotErr
}

func (f *fakeAuth) ResetPassword(_ context.Context, code string, newPassword, confirm []byte) error {
	f.resetCode, f.resetNew, f.resetConfirm = code, string(newPassword), string(confirm)
	return f.resetErr
}

func (f *fakeAuth) Session(context.Context) (string, string, error) {
	if f.sessionErr != nil {
		return "", "", f.sessionErr
	}
	return f.sessionEmail, "tok", nil
}

func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }

func newTestApp(auth *fakeAuth, acts *fakeActivity) *App {
	return &App{
		authService:     auth,
		activityService: acts,
		reader:          bufio.NewReader(strings.NewReader("")),
		out:             &bytes.Buffer{},
	}
}

func TestRegister_Success(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"Ada", "Lovelace", "ada@example.org", "5550001", "Analytical", "/home/ada/me.jpg"}, "secret")
	stubFiles(t, map[string]string{"/home/ada/me.jpg": "jpeg"})

	f := &fakeAuth{}
	a := newTestApp(f, nil)

	require.NoError(t, a.Register(context.Background()))
	require.NotNil(t, f.signUp)
	assert.Equal(t, "ada@example.org", f.signUp.Email)
	assert.Equal(t, "Analytical", f.signUp.CollegeName)
	assert.Equal(t, "secret", string(f.signUp.Password))
	assert.Equal(t, "me.jpg", f.signUp.Image.Name)
	assert.Equal(t, "jpeg", f.signUpBody)
}

func TestRegister_NoImage(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"Ada", "Lovelace", "ada@example.org", "5550001", "", ""}, "secret")

	f := &fakeAuth{}
	require.NoError(t, newTestApp(f, nil).Register(context.Background()))
	assert.Nil(t, f.signUp.Image)
}

func TestRegister_MissingFile(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"Ada", "Lovelace", "ada@example.org", "5550001", "", "nope.jpg"}, "secret")
	stubFiles(t, nil)

	f := &fakeAuth{}
	require.Error(t, newTestApp(f, nil).Register(context.Background()))
	assert.Nil(t, f.signUp)
}

func TestLogin(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"ada@example.org"}, "pw")

	f := &fakeAuth{}
	a := newTestApp(f, nil)

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "ada@example.org", f.loginEmail)
	assert.Equal(t, "pw", f.loginPass)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "ada@example.org", a.getStatus())

	assert.ErrorIs(t, a.Login(context.Background()), errAlreadyLoggedIn)
}

func TestLogin_Failure(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"ada@example.org"}, "bad")

	f := &fakeAuth{loginErr: client.ErrUnauthorized}
	a := newTestApp(f, nil)

	require.ErrorIs(t, a.Login(context.Background()), client.ErrUnauthorized)
	assert.False(t, a.isLoggedIn())
}

func TestLogout(t *testing.T) {
	f := &fakeAuth{}
	a := newTestApp(f, nil)
	a.setUser("ada@example.org")

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, f.logoutCalled)
	assert.False(t, a.isLoggedIn())
}

func TestLogout_ErrorPropagates(t *testing.T) {
	f := &fakeAuth{logoutErr: errors.New("disk")}
	a := newTestApp(f, nil)
	a.setUser("ada@example.org")

	require.Error(t, a.Logout(context.Background()))
	assert.True(t, a.isLoggedIn())
}

func TestForgotAndReset(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"ada@example.org", "123456"}, "new", "new2")

	f := &fakeAuth{}
	a := newTestApp(f, nil)

	require.NoError(t, a.ForgotPassword(context.Background()))
	assert.Equal(t, "ada@example.org", f.forgotEmail)

	require.NoError(t, a.ResetPassword(context.Background()))
	assert.Equal(t, "123456", f.resetCode)
	assert.Equal(t, "new", f.resetNew)
	assert.Equal(t, "new2", f.resetConfirm)
}

func TestReset_ServerError(t *testing.T) {
	capturePrint(t)
	stubInputs(t, []string{"000000"}, "a", "a")

	f := &fakeAuth{resetErr: &client.APIError{Status: 400, Detail: "Invalid OTP"}}
	err := newTestApp(f, nil).ResetPassword(context.Background())
	assert.EqualError(t, err, "Invalid OTP (400)")
}
