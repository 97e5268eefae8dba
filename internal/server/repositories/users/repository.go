package users

import (
	"context"

	"github.com/dmitrijs2005/cyberspace/internal/server/models"
)

// Repository persists user accounts.
//
// Lookups return common.ErrorNotFound for missing rows. Create reports both
// the pre-flight hit and a unique-constraint violation as
// common.ErrDuplicateIdentity.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	ExistsByEmailOrMobile(ctx context.Context, email, mobile string) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
