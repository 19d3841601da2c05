package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/dbx"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/bookings"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/cars"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/sellrequests"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// store is an in-memory stand-in for the database shared by all fake
// repositories. It does not model rollback; tests assert on the sqlmock
// transaction expectations instead.
type store struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*models.User
	cars     map[string]*models.Car
	bookings map[string]*models.Booking
	requests map[string]*models.SellRequest

	errOn map[string]error
}

func newStore() *store {
	return &store{
		users:    map[string]*models.User{},
		cars:     map[string]*models.Car{},
		bookings: map[string]*models.Booking{},
		requests: map[string]*models.SellRequest{},
		errOn:    map[string]error{},
	}
}

func (s *store) nextID() string {
	s.seq++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", s.seq)
}

func (s *store) fail(op string) error {
	return s.errOn[op]
}

type fakeRepoManager struct{ s *store }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return &fakeUsers{m.s} }
func (m *fakeRepoManager) Cars(db dbx.DBTX) cars.Repository             { return &fakeCars{m.s} }
func (m *fakeRepoManager) Bookings(db dbx.DBTX) bookings.Repository     { return &fakeBookings{m.s} }
func (m *fakeRepoManager) SellRequests(db dbx.DBTX) sellrequests.Repository {
	return &fakeSellRequests{m.s}
}

// --- users ---

type fakeUsers struct{ s *store }

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fail("users.Create"); err != nil {
		return nil, err
	}
	for _, x := range f.s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = f.s.nextID()
	u.CreatedAt = time.Now()
	cp := *u
	f.s.users[u.ID] = &cp
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fail("users.GetByEmail"); err != nil {
		return nil, err
	}
	for _, x := range f.s.users {
		if strings.EqualFold(x.Email, email) {
			cp := *x
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if x, ok := f.s.users[id]; ok {
		cp := *x
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) List(ctx context.Context) ([]*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*models.User{}
	for _, x := range f.s.users {
		cp := *x
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, x := range f.s.users {
		if strings.EqualFold(x.Email, email) {
			x.IsAdmin = isAdmin
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsers) Count(ctx context.Context) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fail("users.Count"); err != nil {
		return 0, err
	}
	return int64(len(f.s.users)), nil
}

// --- cars ---

type fakeCars struct{ s *store }

func (f *fakeCars) Create(ctx context.Context, c *models.Car) (*models.Car, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c.ID = f.s.nextID()
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	cp := *c
	f.s.cars[c.ID] = &cp
	return c, nil
}

func (f *fakeCars) Get(ctx context.Context, id string) (*models.Car, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fail("cars.Get"); err != nil {
		return nil, err
	}
	if x, ok := f.s.cars[id]; ok {
		cp := *x
		cp.Images = append([]string(nil), x.Images...)
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCars) List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*models.Car{}
	for _, x := range f.s.cars {
		if filter.Brand != "" && !strings.Contains(strings.ToLower(x.Brand), strings.ToLower(filter.Brand)) {
			continue
		}
		if filter.MaxPrice != nil && x.Price > *filter.MaxPrice {
			continue
		}
		cp := *x
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCars) Update(ctx context.Context, c *models.Car) (*models.Car, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.cars[c.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	c.UpdatedAt = time.Now()
	cp := *c
	f.s.cars[c.ID] = &cp
	return c, nil
}

func (f *fakeCars) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.cars[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.cars, id)
	return nil
}

func (f *fakeCars) MarkSold(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	x, ok := f.s.cars[id]
	if !ok || x.Status != models.CarAvailable {
		return common.ErrCarNotAvailable
	}
	x.Status = models.CarSold
	return nil
}

func (f *fakeCars) Count(ctx context.Context) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.s.cars)), nil
}

// --- bookings ---

type fakeBookings struct{ s *store }

func (f *fakeBookings) withCar(b *models.Booking) *models.Booking {
	cp := *b
	cp.Car = nil
	if c, ok := f.s.cars[b.CarID]; ok {
		cc := *c
		cp.Car = &cc
	}
	return &cp
}

func (f *fakeBookings) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fail("bookings.Create"); err != nil {
		return nil, err
	}
	if b.CheckoutID != "" {
		for _, x := range f.s.bookings {
			if x.CheckoutID == b.CheckoutID {
				return nil, common.ErrorAlreadyExists
			}
		}
	}
	b.ID = f.s.nextID()
	b.CreatedAt = time.Now()
	cp := *b
	f.s.bookings[b.ID] = &cp
	return b, nil
}

func (f *fakeBookings) Get(ctx context.Context, id string) (*models.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if x, ok := f.s.bookings[id]; ok {
		return f.withCar(x), nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBookings) GetByCheckoutID(ctx context.Context, checkoutID string) (*models.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, x := range f.s.bookings {
		if checkoutID != "" && x.CheckoutID == checkoutID {
			return f.withCar(x), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBookings) List(ctx context.Context) ([]*models.Booking, error) {
	return f.ListByUser(ctx, "")
}

func (f *fakeBookings) ListByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*models.Booking{}
	for _, x := range f.s.bookings {
		if userID == "" || x.UserID == userID {
			out = append(out, f.withCar(x))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBookings) Count(ctx context.Context) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.s.bookings)), nil
}

// --- sell requests ---

type fakeSellRequests struct{ s *store }

func (f *fakeSellRequests) Create(ctx context.Context, r *models.SellRequest) (*models.SellRequest, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r.ID = f.s.nextID()
	r.Status = models.SellRequestPending
	r.CreatedAt, r.UpdatedAt = time.Now(), time.Now()
	cp := *r
	f.s.requests[r.ID] = &cp
	return r, nil
}

func (f *fakeSellRequests) Get(ctx context.Context, id string) (*models.SellRequest, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if x, ok := f.s.requests[id]; ok {
		cp := *x
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSellRequests) List(ctx context.Context) ([]*models.SellRequest, error) {
	return f.ListByUser(ctx, "")
}

func (f *fakeSellRequests) ListByUser(ctx context.Context, userID string) ([]*models.SellRequest, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*models.SellRequest{}
	for _, x := range f.s.requests {
		if userID == "" || x.UserID == userID {
			cp := *x
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSellRequests) UpdateStatus(ctx context.Context, id string, from, to models.SellRequestStatus) (*models.SellRequest, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fail("sellrequests.UpdateStatus"); err != nil {
		return nil, err
	}
	x, ok := f.s.requests[id]
	if !ok || x.Status != from {
		return nil, common.ErrorNotFound
	}
	x.Status = to
	cp := *x
	return &cp, nil
}

func (f *fakeSellRequests) CountByStatus(ctx context.Context, status models.SellRequestStatus) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, x := range f.s.requests {
		if x.Status == status {
			n++
		}
	}
	return n, nil
}

// --- image store ---

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeImages) Save(ctx context.Context, ext, contentType string, body io.Reader) (string, error) {
	return "/uploads/x" + ext, nil
}

func (f *fakeImages) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return f.err
}
