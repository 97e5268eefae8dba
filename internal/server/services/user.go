package services

import (
	"context"
	"database/sql"
	"io"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/dmitrijs2005/cyberspace/internal/server/auth"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
	"github.com/dmitrijs2005/cyberspace/internal/server/notify"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cyberspace/internal/server/storage"
)

// Upload is a file received alongside a form.
type Upload struct {
	Name string
	Body io.Reader
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	CollegeName  string
	Password     []byte
	Image        *Upload
}

// AccessToken is returned by Login.
type AccessToken struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
}

// UserService handles sign-up, login and the profile view.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	credentials *CredentialStore
	issuer      *auth.Issuer
	store       storage.Store
	notifier    notify.Notifier
	logger      logging.Logger

	// async runs post-commit side effects; tests replace it to run inline.
	async func(func())
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, credentials *CredentialStore, issuer *auth.Issuer,
	store storage.Store, notifier notify.Notifier, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		credentials: credentials,
		issuer:      issuer,
		store:       store,
		notifier:    notifier,
		logger:      logger.With("module", "users"),
		async:       func(f func()) { go f() },
	}
}

// Register stores the optional profile image, creates the user and sends a
// welcome message once the row is committed. A stored image is removed again
// if the user cannot be created.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		MobileNumber: in.MobileNumber,
		CollegeName:  in.CollegeName,
	}

	if in.Image != nil {
		ref, err := s.store.Save(ctx, in.Image.Body, in.Image.Name, storage.ImageExtensions)
		if err != nil {
			return nil, err
		}
		user.ImageFilename = &ref
	}

	created, err := s.credentials.CreateUser(ctx, user, in.Password)
	if err != nil {
		if user.ImageFilename != nil {
			if derr := s.store.Delete(ctx, *user.ImageFilename); derr != nil {
				s.logger.Warn(ctx, "orphaned profile image", "ref", *user.ImageFilename, "error", derr)
			}
		}
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID, "email", logging.MaskEmail(created.Email))

	to, name := created.Email, created.FirstName
	bg := context.WithoutCancel(ctx)
	s.async(func() {
		if err := s.notifier.Notify(bg, to, notify.KindWelcome, map[string]string{"name": name}); err != nil {
			s.logger.Error(bg, "welcome mail not delivered", "to", logging.MaskEmail(to), "error", err)
		}
	})

	return created, nil
}

// Login verifies the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, email string, password []byte) (*AccessToken, error) {
	user, err := s.credentials.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AccessToken{Token: token, TokenType: common.TokenType}, nil
}

// Authenticate resolves a bearer token to its user id.
func (s *UserService) Authenticate(token string) (int64, error) {
	return s.issuer.Verify(token)
}

// Profile returns the user and how many registrations of each kind they made.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	user, err := s.credentials.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repomanager.Registrations(s.db).CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		User:           *user,
		Internships:    counts.Internships,
		Seminars:       counts.Seminars,
		Webinars:       counts.Webinars,
		ResearchPapers: counts.ResearchPapers,
	}, nil
}
