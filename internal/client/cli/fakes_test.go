package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/autodealer/internal/client/client"
	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/client/payment"
	"github.com/dmitrijs2005/autodealer/internal/client/repositories"
	"github.com/dmitrijs2005/autodealer/internal/client/services"
	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a fixed catalog and records what the terminal sends. Like
// the real client, a 401 on booking clears the session.
type fakeAPI struct {
	cars         map[string]models.Car
	bookingErrs  []error
	bookingReqs  []models.BookingRequest
	filters      []models.CarFilter
	updates      map[string]models.CarInput
	created      []models.CarInput
	sellRequests []models.SellCarDetails
	uploads      [][]string
	statuses     map[string]string
	receipts     int
	store        *fakeStore
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		cars: map[string]models.Car{
			"c1": {ID: "c1", Brand: "Tata", Name: "Nexon", Year: 2023, Price: 900000, FuelType: "Petrol", Transmission: "Manual", Status: "Available"},
			"c2": {ID: "c2", Brand: "Honda", Name: "City", Year: 2021, Price: 1100000, FuelType: "Petrol", Transmission: "Automatic", Status: "Sold"},
		},
		updates:  map[string]models.CarInput{},
		statuses: map[string]string{},
	}
}

func (f *fakeAPI) Register(_ context.Context, name, email, _ string) (*models.Session, error) {
	return &models.Session{ID: "u9", Name: name, Email: email, Token: "t"}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.Session, error) {
	if password != "secret1" {
		return nil, common.ErrInvalidCredentials
	}
	return &models.Session{ID: "u1", Name: "Asha", Email: email, Token: "t"}, nil
}

func (f *fakeAPI) Ping(context.Context) error { return nil }

func (f *fakeAPI) CreateBooking(_ context.Context, req models.BookingRequest) (*models.Booking, error) {
	f.bookingReqs = append(f.bookingReqs, req)
	if len(f.bookingErrs) > 0 {
		err := f.bookingErrs[0]
		f.bookingErrs = f.bookingErrs[1:]
		if err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				f.store.current = nil
			}
			return nil, err
		}
	}
	car := f.cars[req.CarID]
	return &models.Booking{
		ID:             "b1",
		CarID:          req.CarID,
		Car:            &car,
		UserID:         "u1",
		Type:           req.Type,
		Amount:         models.Quote(req.Type, car.Price),
		PaymentDetails: models.PaymentDetails{Method: req.PaymentMethod, Status: "Completed", TransactionID: "TXN00000000000000AA"},
		CheckoutID:     req.CheckoutID,
	}, nil
}

func (f *fakeAPI) ListCars(_ context.Context, flt models.CarFilter) ([]models.Car, error) {
	f.filters = append(f.filters, flt)
	var out []models.Car
	for _, id := range []string{"c1", "c2"} {
		c := f.cars[id]
		if flt.Brand == "" || strings.EqualFold(flt.Brand, c.Brand) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetCar(_ context.Context, id string) (*models.Car, error) {
	c, ok := f.cars[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (f *fakeAPI) CreateCar(_ context.Context, in models.CarInput) (*models.Car, error) {
	f.created = append(f.created, in)
	return &models.Car{ID: "c3", Brand: *in.Brand, Name: *in.Name}, nil
}

func (f *fakeAPI) UpdateCar(_ context.Context, id string, in models.CarInput) (*models.Car, error) {
	f.updates[id] = in
	c := f.cars[id]
	if in.Price != nil {
		c.Price = *in.Price
	}
	return &c, nil
}

func (f *fakeAPI) DeleteCar(_ context.Context, id string) error {
	delete(f.cars, id)
	return nil
}

func (f *fakeAPI) ListBookings(context.Context) ([]models.Booking, error) { return nil, nil }
func (f *fakeAPI) MyBookings(context.Context) ([]models.Booking, error)   { return nil, nil }

func (f *fakeAPI) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	return &models.Booking{ID: id, UserID: "u1", Type: "buy", Amount: 940000}, nil
}

func (f *fakeAPI) Receipt(_ context.Context, id string) (string, error) {
	f.receipts++
	return "RECEIPT " + id + "\n", nil
}

func (f *fakeAPI) CreateSellRequest(_ context.Context, d models.SellCarDetails) (*models.SellRequest, error) {
	f.sellRequests = append(f.sellRequests, d)
	return &models.SellRequest{ID: "s1", CarDetails: d, Status: "Pending"}, nil
}

func (f *fakeAPI) ListSellRequests(context.Context) ([]models.SellRequest, error) { return nil, nil }
func (f *fakeAPI) MySellRequests(context.Context) ([]models.SellRequest, error)   { return nil, nil }

func (f *fakeAPI) UpdateSellRequest(_ context.Context, id, status string) (*models.SellRequest, error) {
	f.statuses[id] = status
	return &models.SellRequest{ID: id, Status: status}, nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]models.User, error) {
	return []models.User{{ID: "u1", Name: "Asha", Email: "asha@example.in"}}, nil
}

func (f *fakeAPI) DashboardStats(context.Context) (*models.DashboardStats, error) {
	return &models.DashboardStats{TotalCars: 2, PendingRequests: 1, TotalUsers: 3, TotalBookings: 4}, nil
}

func (f *fakeAPI) Upload(_ context.Context, paths ...string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	f.uploads = append(f.uploads, paths)
	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = "/uploads/" + filepath.Base(p)
	}
	return urls, nil
}

type fakeStore struct {
	current *models.Session
}

func (s *fakeStore) Save(_ context.Context, sess *models.Session) error {
	s.current = sess
	return nil
}

func (s *fakeStore) Clear(context.Context) error {
	s.current = nil
	return nil
}

func (s *fakeStore) Current() *models.Session { return s.current }

type instantPayer struct{}

func (instantPayer) Pay(_ context.Context, method string, amount int64) (*payment.Result, error) {
	return &payment.Result{Method: method, Amount: amount}, nil
}

var (
	customer = &models.Session{ID: "u1", Name: "Asha", Email: "asha@example.in", Token: "t"}
	admin    = &models.Session{ID: "u0", Name: "Ravi", Email: "ravi@example.in", IsAdmin: true, Token: "t"}
)

// newTestApp builds an App reading input and writing to the returned buffer.
// The local database is a real sqlite file in a temp dir.
func newTestApp(t *testing.T, api *fakeAPI, sess *models.Session, input string) (*App, *bytes.Buffer) {
	t.Helper()

	repos, err := repositories.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	store := &fakeStore{current: sess}
	api.store = store
	out := &bytes.Buffer{}

	return &App{
		api:      api,
		auth:     services.NewAuthService(api, store),
		payer:    instantPayer{},
		receipts: repos.Receipts,
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      out,
		logger:   logging.Nop(),
	}, out
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = toString(v)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	}
	return ""
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}
