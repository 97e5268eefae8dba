package otps

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/dbx"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, code *models.OneTimeCode) (*models.OneTimeCode, error) {
	query :=
		`INSERT INTO otps (user_id, otp, created_at, expiry, used)
		 VALUES ($1, $2, $3, $4, FALSE)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, code.UserID, code.Code, code.CreatedAt, code.ExpiresAt).Scan(&code.ID)
	if err != nil {
		return nil, dbx.ClassifyError(err)
	}

	code.Used = false
	return code, nil
}

func (r *PostgresRepository) FindActiveByCode(ctx context.Context, code string) (*models.OneTimeCode, error) {
	query :=
		`SELECT id, user_id, otp, created_at, expiry, used
		 FROM otps
		 WHERE otp = $1 AND used = FALSE
		 ORDER BY id DESC
		 LIMIT 1
		 `

	c := &models.OneTimeCode{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(&c.ID, &c.UserID, &c.Code, &c.CreatedAt, &c.ExpiresAt, &c.Used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.ClassifyError(err)
	}
	return c, nil
}

func (r *PostgresRepository) Consume(ctx context.Context, id int64) error {
	query :=
		`UPDATE otps SET used = TRUE
		 WHERE id = $1 AND used = FALSE
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return dbx.ClassifyError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbx.ClassifyError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
