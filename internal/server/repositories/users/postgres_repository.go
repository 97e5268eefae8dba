package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const userColumns = `id, first_name, last_name, email_id, mobile_number, college_name, hashed_password, image_filename, created_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (first_name, last_name, email_id, mobile_number, college_name, hashed_password, image_filename)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.MobileNumber, user.CollegeName,
		user.PasswordHash, user.ImageFilename).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, dbx.ClassifyError(err)
	}

	return user, nil
}

func (r *PostgresRepository) ExistsByEmailOrMobile(ctx context.Context, email, mobile string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM users WHERE email_id = $1 OR mobile_number = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, mobile).Scan(&exists); err != nil {
		return false, dbx.ClassifyError(err)
	}
	return exists, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email_id = $1`
	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	query :=
		`UPDATE users SET hashed_password = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, hash, id)
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

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var image sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.MobileNumber,
		&user.CollegeName, &user.PasswordHash, &image, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("find user: %w", dbx.ClassifyError(err))
	}

	if image.Valid {
		user.ImageFilename = &image.String
	}
	return user, nil
}
