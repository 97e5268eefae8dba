package services

import (
	"context"
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE users (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name      TEXT NOT NULL,
    last_name       TEXT NOT NULL,
    email_id        TEXT NOT NULL UNIQUE,
    mobile_number   TEXT NOT NULL UNIQUE,
    college_name    TEXT NOT NULL DEFAULT '',
    hashed_password TEXT NOT NULL,
    image_filename  TEXT,
    created_at      TIMESTAMP NOT NULL
);
CREATE TABLE otps (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL REFERENCES users (id),
    otp        TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    expiry     TIMESTAMP NOT NULL,
    used       BOOLEAN NOT NULL DEFAULT FALSE
);`

type sqliteFixture struct {
	db     *sql.DB
	creds  *CredentialStore
	otps   *OTPManager
	reset  *ResetService
	userID int64
}

// newSQLiteFixture runs the real repositories against an in-memory database
// holding one user whose password is "OldPass1!".
func newSQLiteFixture(t *testing.T) *sqliteFixture {
	t.Helper()

	db, err := sql.Open("sqlite", "file:services_"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)

	rm := repomanager.NewPostgresRepositoryManager()
	hasher := testHasher()

	hash, err := hasher.Hash([]byte("OldPass1!"))
	require.NoError(t, err)

	res, err := db.Exec(`INSERT INTO users (first_name, last_name, email_id, mobile_number, hashed_password, created_at)
		VALUES ('Ada', 'Lovelace', 'ada@example.org', '5550001', ?, ?)`, hash, time.Now().UTC())
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	creds := NewCredentialStore(db, rm, hasher)
	om := NewOTPManager(db, rm, 5*time.Minute)
	om.generate = func() (string, error) { return "483920", nil }

	return &sqliteFixture{
		db:     db,
		creds:  creds,
		otps:   om,
		reset:  NewResetService(db, rm, creds, om, &fakeNotifier{}, nil, logging.NewNop()),
		userID: id,
	}
}

func TestResetPassword_EndToEnd(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()

	issued, err := f.otps.Issue(ctx, f.userID)
	require.NoError(t, err)
	require.Equal(t, "483920", issued.Code)

	require.NoError(t, f.reset.ResetPassword(ctx, "483920", []byte("NewPass1!"), []byte("NewPass1!")))

	_, err = f.creds.VerifyCredentials(ctx, "ada@example.org", []byte("NewPass1!"))
	assert.NoError(t, err)
	_, err = f.creds.VerifyCredentials(ctx, "ada@example.org", []byte("OldPass1!"))
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = f.otps.Redeem(ctx, "483920")
	assert.ErrorIs(t, err, common.ErrCodeNotFoundOrConsumed)
}

func TestResetPassword_EndToEndMismatch(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()

	_, err := f.otps.Issue(ctx, f.userID)
	require.NoError(t, err)

	err = f.reset.ResetPassword(ctx, "483920", []byte("A"), []byte("B"))
	assert.ErrorIs(t, err, common.ErrPasswordMismatch)

	_, err = f.creds.VerifyCredentials(ctx, "ada@example.org", []byte("OldPass1!"))
	assert.NoError(t, err, "hash must be unchanged")

	code, err := f.otps.Redeem(ctx, "483920")
	require.NoError(t, err, "code must still be active")
	assert.False(t, code.Used)
}

func TestResetPassword_EndToEndConsumeRevertsHash(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()

	issued, err := f.otps.Issue(ctx, f.userID)
	require.NoError(t, err)

	// a concurrent reset consumes the code between redeem and consume
	_, err = f.db.Exec(`CREATE TRIGGER steal AFTER UPDATE OF hashed_password ON users
		BEGIN UPDATE otps SET used = TRUE WHERE id = ` + strconv.FormatInt(issued.ID, 10) + `; END`)
	require.NoError(t, err)

	err = f.reset.ResetPassword(ctx, "483920", []byte("NewPass1!"), []byte("NewPass1!"))
	assert.ErrorIs(t, err, common.ErrCodeNotFoundOrConsumed)

	_, err = f.creds.VerifyCredentials(ctx, "ada@example.org", []byte("OldPass1!"))
	assert.NoError(t, err, "password update must roll back with the failed consume")
}

func TestOTPManager_EndToEndExpiry(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()

	base := time.Now().UTC()
	f.otps.now = func() time.Time { return base }

	_, err := f.otps.Issue(ctx, f.userID)
	require.NoError(t, err)

	f.otps.now = func() time.Time { return base.Add(6 * time.Minute) }
	_, err = f.otps.Redeem(ctx, "483920")
	assert.ErrorIs(t, err, common.ErrCodeExpired)
}
