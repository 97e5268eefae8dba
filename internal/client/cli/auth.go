package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cyberspace/internal/client/models"
	"github.com/dmitrijs2005/cyberspace/internal/common"
)

// Indirections over the interactive input helpers, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	openFile      = func(name string) (io.ReadCloser, error) { return os.Open(name) }
)

var errAlreadyLoggedIn = errors.New("already logged in, use logout first")

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askFields prompts for each label in order and returns the answers.
func (a *App) askFields(labels ...string) ([]string, error) {
	answers := make([]string, len(labels))
	for i, l := range labels {
		v, err := a.ask(l)
		if err != nil {
			return nil, err
		}
		answers[i] = v
	}
	return answers, nil
}

// askAttachment opens the file at the entered path. An empty answer means no
// attachment when optional is true.
func (a *App) askAttachment(prompt string, optional bool) (*models.Attachment, func(), error) {
	path, err := a.ask(prompt)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		if optional {
			return nil, func() {}, nil
		}
		return nil, nil, errors.New("a file is required")
	}

	f, err := openFile(path)
	if err != nil {
		return nil, nil, err
	}
	return &models.Attachment{Name: filepath.Base(path), Content: f}, func() { _ = f.Close() }, nil
}

// Register prompts for the sign-up form and creates the account.
func (a *App) Register(ctx context.Context) error {
	v, err := a.askFields("First name", "Last name", "Email", "Mobile number", "College name")
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	image, closeImage, err := a.askAttachment("Profile image path (.jpg, empty to skip)", true)
	if err != nil {
		return err
	}
	defer closeImage()

	p, err := a.authService.Register(ctx, models.SignUp{
		FirstName:    v[0],
		LastName:     v[1],
		Email:        v[2],
		MobileNumber: v[3],
		CollegeName:  v[4],
		Password:     password,
		Image:        image,
	})
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Registered %s (id %d). You can log in now.", p.Email, p.ID))
	return nil
}

// Login prompts for credentials and stores the session on success.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		return errAlreadyLoggedIn
	}

	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}

	a.setUser(email)
	printlnFn("Login successful")
	return nil
}

// Logout forgets the stored session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.setUser("")
	return nil
}

// ForgotPassword asks the server to email a reset code.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	if err := a.authService.ForgotPassword(ctx, email); err != nil {
		return err
	}
	printlnFn("A reset code was sent to " + email)
	return nil
}

// ResetPassword redeems a reset code for a new password.
func (a *App) ResetPassword(ctx context.Context) error {
	code, err := a.ask("Enter the code from the email")
	if err != nil {
		return err
	}

	newPassword, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.authService.ResetPassword(ctx, code, newPassword, confirm); err != nil {
		return err
	}
	printlnFn("Password changed. Log in with the new password.")
	return nil
}
