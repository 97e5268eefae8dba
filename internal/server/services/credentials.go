// Package services contains the server-side business logic: the credential
// store, the one-time code lifecycle, the password reset flow, user accounts
// and event registrations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/cryptox"
	"github.com/dmitrijs2005/cyberspace/internal/dbx"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/repomanager"
)

// CredentialStore persists users together with their argon2id password hash.
// Plaintext passwords never reach the repositories.
type CredentialStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.Hasher

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialStore(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.Hasher) *CredentialStore {
	return &CredentialStore{db: db, repomanager: m, hasher: hasher}
}

// CreateUser hashes password and inserts profile. An email or mobile number
// already on file fails with common.ErrDuplicateIdentity, whether caught by
// the existence check or by the unique constraints at insert time.
func (s *CredentialStore) CreateUser(ctx context.Context, profile *models.User, password []byte) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmailOrMobile(ctx, profile.Email, profile.MobileNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrDuplicateIdentity
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	profile.PasswordHash = hash

	return repo.Create(ctx, profile)
}

func (s *CredentialStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByID(ctx, id)
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByEmail(ctx, email)
}

// VerifyCredentials returns the user owning email if password matches the
// stored hash. Unknown emails and wrong passwords both yield
// common.ErrInvalidCredentials; an unknown email still pays for one hash
// comparison so the two cases take similar time.
func (s *CredentialStore) VerifyCredentials(ctx context.Context, email string, password []byte) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummy())
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// UpdatePasswordHash re-hashes password for userID. No strength policy is
// applied. common.ErrorNotFound when the user does not exist.
func (s *CredentialStore) UpdatePasswordHash(ctx context.Context, userID int64, password []byte) error {
	return s.updatePasswordHash(ctx, s.db, userID, password)
}

func (s *CredentialStore) updatePasswordHash(ctx context.Context, db dbx.DBTX, userID int64, password []byte) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.repomanager.Users(db).UpdatePasswordHash(ctx, userID, hash)
}

func (s *CredentialStore) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(common.GenerateRandByteArray(16))
	})
	return s.dummyHash
}
