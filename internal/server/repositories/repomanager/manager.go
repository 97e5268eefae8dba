package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cyberspace/internal/dbx"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/otps"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repositories against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	OTPs(db dbx.DBTX) otps.Repository
	Registrations(db dbx.DBTX) registrations.Repository
}
