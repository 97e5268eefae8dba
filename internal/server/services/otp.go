package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/cryptox"
	"github.com/dmitrijs2005/cyberspace/internal/dbx"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/repomanager"
)

// DefaultOTPValidity is how long an issued code can be redeemed.
const DefaultOTPValidity = 5 * time.Minute

// OTPManager issues, validates and consumes password reset codes.
//
// A code is Active until it is consumed or its expiry passes. Expiry is
// detected lazily by Redeem; nothing sweeps old rows.
type OTPManager struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validity    time.Duration

	now      func() time.Time
	generate func() (string, error)
}

func NewOTPManager(db *sql.DB, m repomanager.RepositoryManager, validity time.Duration) *OTPManager {
	if validity <= 0 {
		validity = DefaultOTPValidity
	}
	return &OTPManager{
		db:          db,
		repomanager: m,
		validity:    validity,
		now:         time.Now,
		generate:    func() (string, error) { return cryptox.NumericCode(common.OTPDigits) },
	}
}

// Validity reports the lifetime of issued codes.
func (m *OTPManager) Validity() time.Duration {
	return m.validity
}

// Issue persists a fresh Active code for userID.
func (m *OTPManager) Issue(ctx context.Context, userID int64) (*models.OneTimeCode, error) {
	return m.issue(ctx, m.db, userID)
}

// Redeem returns the Active code with the given value without consuming it.
// common.ErrCodeNotFoundOrConsumed when no unconsumed code matches,
// common.ErrCodeExpired when it matched but its expiry has passed.
func (m *OTPManager) Redeem(ctx context.Context, code string) (*models.OneTimeCode, error) {
	return m.redeem(ctx, m.db, code)
}

// Consume marks the code used. It succeeds for exactly one caller per code;
// later calls get common.ErrorNotFound.
func (m *OTPManager) Consume(ctx context.Context, codeID int64) error {
	return m.consume(ctx, m.db, codeID)
}

func (m *OTPManager) issue(ctx context.Context, db dbx.DBTX, userID int64) (*models.OneTimeCode, error) {
	code, err := m.generate()
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	return m.repomanager.OTPs(db).Create(ctx, &models.OneTimeCode{
		UserID:    userID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(m.validity),
	})
}

func (m *OTPManager) redeem(ctx context.Context, db dbx.DBTX, code string) (*models.OneTimeCode, error) {
	c, err := m.repomanager.OTPs(db).FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrCodeNotFoundOrConsumed
		}
		return nil, err
	}

	// TIMESTAMPTZ scans as an exact instant in time.Local; zone-less
	// columns scan as UTC in both pgx and sqlite.
	c.ExpiresAt = c.ExpiresAt.UTC()
	if c.Expired(m.now().UTC()) {
		return nil, common.ErrCodeExpired
	}
	return c, nil
}

func (m *OTPManager) consume(ctx context.Context, db dbx.DBTX, codeID int64) error {
	return m.repomanager.OTPs(db).Consume(ctx, codeID)
}
