package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/logging"
	"github.com/dmitrijs2005/autodealer/internal/server/auth"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/dmitrijs2005/autodealer/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

// --- fake services ---

type fakeUsers struct {
	register func(ctx context.Context, name, email, password string) (*services.Session, error)
	login    func(ctx context.Context, email, password string) (*services.Session, error)
	list     func(ctx context.Context) ([]*models.User, error)
}

func (f *fakeUsers) Register(ctx context.Context, name, email, password string) (*services.Session, error) {
	return f.register(ctx, name, email, password)
}
func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.Session, error) {
	return f.login(ctx, email, password)
}
func (f *fakeUsers) ListUsers(ctx context.Context) ([]*models.User, error) { return f.list(ctx) }

type fakeCars struct {
	lastFilter models.CarFilter
	lastPatch  models.CarPatch
	lastCar    *models.Car

	list   func() ([]*models.Car, error)
	get    func(id string) (*models.Car, error)
	create func(c *models.Car) (*models.Car, error)
	update func(id string, p models.CarPatch) (*models.Car, error)
	del    func(id string) error
}

func (f *fakeCars) List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error) {
	f.lastFilter = filter
	return f.list()
}
func (f *fakeCars) Get(ctx context.Context, id string) (*models.Car, error) { return f.get(id) }
func (f *fakeCars) Create(ctx context.Context, c *models.Car) (*models.Car, error) {
	f.lastCar = c
	return f.create(c)
}
func (f *fakeCars) Update(ctx context.Context, id string, p models.CarPatch) (*models.Car, error) {
	f.lastPatch = p
	return f.update(id, p)
}
func (f *fakeCars) Delete(ctx context.Context, id string) error { return f.del(id) }

type fakeBookings struct {
	lastUser string
	lastReq  services.BookingRequest

	create   func(userID string, req services.BookingRequest) (*models.Booking, bool, error)
	list     func() ([]*models.Booking, error)
	listMine func(userID string) ([]*models.Booking, error)
	get      func(id, userID string, isAdmin bool) (*models.Booking, error)
	receipt  func(id, userID string, isAdmin bool) (string, error)
}

func (f *fakeBookings) Create(ctx context.Context, userID string, req services.BookingRequest) (*models.Booking, bool, error) {
	f.lastUser, f.lastReq = userID, req
	return f.create(userID, req)
}
func (f *fakeBookings) List(ctx context.Context) ([]*models.Booking, error) { return f.list() }
func (f *fakeBookings) ListMine(ctx context.Context, userID string) ([]*models.Booking, error) {
	return f.listMine(userID)
}
func (f *fakeBookings) Get(ctx context.Context, id, userID string, isAdmin bool) (*models.Booking, error) {
	return f.get(id, userID, isAdmin)
}
func (f *fakeBookings) Receipt(ctx context.Context, id, userID string, isAdmin bool) (string, error) {
	return f.receipt(id, userID, isAdmin)
}

type fakeSellRequests struct {
	create       func(userID string, d models.SellCarDetails) (*models.SellRequest, error)
	list         func() ([]*models.SellRequest, error)
	listMine     func(userID string) ([]*models.SellRequest, error)
	updateStatus func(id string, s models.SellRequestStatus) (*models.SellRequest, error)
}

func (f *fakeSellRequests) Create(ctx context.Context, userID string, d models.SellCarDetails) (*models.SellRequest, error) {
	return f.create(userID, d)
}
func (f *fakeSellRequests) List(ctx context.Context) ([]*models.SellRequest, error) { return f.list() }
func (f *fakeSellRequests) ListMine(ctx context.Context, userID string) ([]*models.SellRequest, error) {
	return f.listMine(userID)
}
func (f *fakeSellRequests) UpdateStatus(ctx context.Context, id string, s models.SellRequestStatus) (*models.SellRequest, error) {
	return f.updateStatus(id, s)
}

type fakeStats struct {
	out *models.DashboardStats
	err error
}

func (f *fakeStats) Dashboard(ctx context.Context) (*models.DashboardStats, error) { return f.out, f.err }

type fakeImages struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	failAt  int
}

func (f *fakeImages) Save(ctx context.Context, ext, contentType string, body io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	if f.failAt > 0 && len(f.saved)+1 == f.failAt {
		return "", io.ErrClosedPipe
	}
	url := "/uploads/img" + string(rune('a'+len(f.saved))) + ext
	f.saved = append(f.saved, contentType)
	return url, nil
}

func (f *fakeImages) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

// --- harness ---

type testEnv struct {
	users    *fakeUsers
	cars     *fakeCars
	bookings *fakeBookings
	sell     *fakeSellRequests
	stats    *fakeStats
	images   *fakeImages
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:    &fakeUsers{},
		cars:     &fakeCars{},
		bookings: &fakeBookings{},
		sell:     &fakeSellRequests{},
		stats:    &fakeStats{},
		images:   &fakeImages{},
	}
	h := NewHandler(Deps{
		Users:         env.users,
		Cars:          env.cars,
		Bookings:      env.bookings,
		SellRequests:  env.sell,
		Stats:         env.stats,
		Images:        env.images,
		JWTSecret:     testSecret,
		MaxUploadSize: 1 << 10,
	}, logging.Nop())
	env.router = h.Router(RouterOptions{FrontendURL: "http://localhost:5173"})
	return env
}

func token(t *testing.T, userID string, isAdmin bool) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, userID+"@example.com", isAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path string, body any, tok string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorBody](t, w).Message
}

func expiredToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken("u1", "u1@example.com", false, testSecret, -time.Minute)
	require.NoError(t, err)
	return tok
}
