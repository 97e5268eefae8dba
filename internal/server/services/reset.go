package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/dbx"
	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/dmitrijs2005/cyberspace/internal/server/notify"
	"github.com/dmitrijs2005/cyberspace/internal/server/ratelimit"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/repomanager"
)

// ResetService runs the forgot-password and reset-password flows.
type ResetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	credentials *CredentialStore
	otps        *OTPManager
	notifier    notify.Notifier
	limiter     ratelimit.Limiter
	logger      logging.Logger
}

func NewResetService(db *sql.DB, m repomanager.RepositoryManager, credentials *CredentialStore, otps *OTPManager,
	notifier notify.Notifier, limiter ratelimit.Limiter, logger logging.Logger) *ResetService {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	return &ResetService{
		db:          db,
		repomanager: m,
		credentials: credentials,
		otps:        otps,
		notifier:    notifier,
		limiter:     limiter,
		logger:      logger.With("module", "reset"),
	}
}

// ForgotPassword issues a reset code for the account registered under email
// and mails it. Unknown emails fail with common.ErrorNotFound. A delivery
// failure is logged only: the code is already valid once stored.
func (s *ResetService) ForgotPassword(ctx context.Context, email string) error {
	if err := s.limiter.Allow(ctx, email); err != nil {
		return err
	}

	user, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := s.otps.Issue(ctx, user.ID)
	if err != nil {
		return err
	}

	params := map[string]string{
		"name":    user.FirstName,
		"otp":     code.Code,
		"minutes": strconv.Itoa(int(s.otps.Validity().Minutes())),
	}
	if err := s.notifier.Notify(ctx, user.Email, notify.KindPasswordReset, params); err != nil {
		s.logger.Error(ctx, "reset code not delivered", "user_id", user.ID, "to", logging.MaskEmail(user.Email), "error", err)
	}
	return nil
}

// ResetPassword redeems code, checks that both passwords match and replaces
// the owner's password hash, consuming the code.
//
// All steps share one transaction. Any failure, including a lost race on the
// conditional consume, rolls back so the hash and the code are left as they
// were.
func (s *ResetService) ResetPassword(ctx context.Context, code string, newPassword, confirmPassword []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		otp, err := s.otps.redeem(ctx, tx, code)
		if err != nil {
			return err
		}

		if len(newPassword) != len(confirmPassword) || subtle.ConstantTimeCompare(newPassword, confirmPassword) != 1 {
			return common.ErrPasswordMismatch
		}

		user, err := s.repomanager.Users(tx).FindByID(ctx, otp.UserID)
		if err != nil {
			return err
		}

		if err := s.credentials.updatePasswordHash(ctx, tx, user.ID, newPassword); err != nil {
			return err
		}

		if err := s.otps.consume(ctx, tx, otp.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrCodeNotFoundOrConsumed
			}
			return err
		}

		s.logger.Info(ctx, "password reset", "user_id", user.ID)
		return nil
	})
}
