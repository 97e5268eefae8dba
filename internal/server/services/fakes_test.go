package services

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/cryptox"
	"github.com/dmitrijs2005/cyberspace/internal/dbx"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
	"github.com/dmitrijs2005/cyberspace/internal/server/notify"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/otps"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/users"
	"github.com/dmitrijs2005/cyberspace/internal/server/storage"
)

var testHashParams = cryptox.Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func testHasher() *cryptox.Argon2Hasher { return cryptox.NewArgon2Hasher(testHashParams) }

// fakeUsersRepo keeps users in memory and enforces unique email and mobile.
type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64

	existsErr error
	createErr error
	updateErr error
	skipCheck bool // report no duplicates from ExistsByEmailOrMobile
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, x := range f.byID {
		if x.Email == u.Email || x.MobileNumber == u.MobileNumber {
			return nil, common.ErrDuplicateIdentity
		}
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) ExistsByEmailOrMobile(ctx context.Context, email, mobile string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.skipCheck {
		return false, nil
	}
	for _, x := range f.byID {
		if x.Email == email || x.MobileNumber == mobile {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsersRepo) hashOf(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].PasswordHash
}

type fakeOTPRepo struct {
	mu         sync.Mutex
	codes      []*models.OneTimeCode
	createErr  error
	consumeErr error
}

func (f *fakeOTPRepo) Create(ctx context.Context, c *models.OneTimeCode) (*models.OneTimeCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *c
	cp.ID = int64(len(f.codes) + 1)
	f.codes = append(f.codes, &cp)
	out := cp
	return &out, nil
}

func (f *fakeOTPRepo) FindActiveByCode(ctx context.Context, code string) (*models.OneTimeCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.codes) - 1; i >= 0; i-- {
		c := f.codes[i]
		if c.Code == code && !c.Used {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeOTPRepo) Consume(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.consumeErr != nil {
		return f.consumeErr
	}
	for _, c := range f.codes {
		if c.ID == id && !c.Used {
			c.Used = true
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRegistrationsRepo struct {
	internships []*models.VirtualInternship
	events      []*models.EventRegistration
	papers      []*models.ResearchPaper
	counts      *models.RegistrationCounts
	err         error
}

func (f *fakeRegistrationsRepo) CreateInternship(ctx context.Context, in *models.VirtualInternship) (*models.VirtualInternship, error) {
	if f.err != nil {
		return nil, f.err
	}
	in.ID = int64(len(f.internships) + 1)
	f.internships = append(f.internships, in)
	return in, nil
}

func (f *fakeRegistrationsRepo) CreateEvent(ctx context.Context, ev *models.EventRegistration) (*models.EventRegistration, error) {
	if f.err != nil {
		return nil, f.err
	}
	ev.ID = int64(len(f.events) + 1)
	f.events = append(f.events, ev)
	return ev, nil
}

func (f *fakeRegistrationsRepo) CreateResearchPaper(ctx context.Context, p *models.ResearchPaper) (*models.ResearchPaper, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = int64(len(f.papers) + 1)
	f.papers = append(f.papers, p)
	return p, nil
}

func (f *fakeRegistrationsRepo) CountByUser(ctx context.Context, userID int64) (*models.RegistrationCounts, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.counts == nil {
		return &models.RegistrationCounts{}, nil
	}
	return f.counts, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	o *fakeOTPRepo
	r *fakeRegistrationsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), o: &fakeOTPRepo{}, r: &fakeRegistrationsRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) OTPs(db dbx.DBTX) otps.Repository                   { return m.o }
func (m *fakeRepoManager) Registrations(db dbx.DBTX) registrations.Repository { return m.r }

type sentNotification struct {
	to     string
	kind   notify.Kind
	params map[string]string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, to string, kind notify.Kind, params map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{to: to, kind: kind, params: params})
	return f.err
}

func (f *fakeNotifier) all() []sentNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentNotification(nil), f.sent...)
}

// fakeStore records saved objects in memory.
type fakeStore struct {
	saved   map[string]string
	deleted []string
	saveErr error
	n       int
}

func newFakeStore() *fakeStore { return &fakeStore{saved: map[string]string{}} }

func (f *fakeStore) Save(ctx context.Context, r io.Reader, name string, allowed storage.AllowList) (string, error) {
	ext, err := allowed.Extension(name)
	if err != nil {
		return "", err
	}
	if f.saveErr != nil {
		return "", f.saveErr
	}
	b, _ := io.ReadAll(r)
	f.n++
	ref := strings.Repeat("f", f.n) + ext
	f.saved[ref] = string(b)
	return ref, nil
}

func (f *fakeStore) Delete(ctx context.Context, ref string) error {
	delete(f.saved, ref)
	f.deleted = append(f.deleted, ref)
	return nil
}

type fakeLimiter struct{ err error }

func (f fakeLimiter) Allow(context.Context, string) error { return f.err }
