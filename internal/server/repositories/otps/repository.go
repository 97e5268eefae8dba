package otps

import (
	"context"

	"github.com/dmitrijs2005/cyberspace/internal/server/models"
)

// Repository persists one-time reset codes.
type Repository interface {
	Create(ctx context.Context, code *models.OneTimeCode) (*models.OneTimeCode, error)
	// FindActiveByCode returns the newest unconsumed code with the given
	// value, expired or not. common.ErrorNotFound when none.
	FindActiveByCode(ctx context.Context, code string) (*models.OneTimeCode, error)
	// Consume flips used to true only if it was false. common.ErrorNotFound
	// when the row is missing or already consumed.
	Consume(ctx context.Context, id int64) error
}
