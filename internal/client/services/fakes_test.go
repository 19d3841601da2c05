package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/client/payment"
)

type fakeAuthAPI struct {
	session *models.Session
	err     error
	calls   int
}

func (f *fakeAuthAPI) Register(_ context.Context, name, email, _ string) (*models.Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Session{ID: "u1", Name: name, Email: email, Token: "t"}, nil
}

func (f *fakeAuthAPI) Login(_ context.Context, email, _ string) (*models.Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.session != nil {
		return f.session, nil
	}
	return &models.Session{ID: "u1", Email: email, Token: "t"}, nil
}

func (f *fakeAuthAPI) Ping(context.Context) error { return f.err }

type fakeSessionStore struct {
	current *models.Session
	saveErr error
}

func (f *fakeSessionStore) Save(_ context.Context, s *models.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.current = s
	return nil
}

func (f *fakeSessionStore) Clear(context.Context) error {
	f.current = nil
	return nil
}

func (f *fakeSessionStore) Current() *models.Session { return f.current }

// fakeBookingAPI records requests. When block is set, calls close started
// and wait for block.
type fakeBookingAPI struct {
	mu      sync.Mutex
	reqs    []models.BookingRequest
	errs    []error
	block   chan struct{}
	started chan struct{}
	once    sync.Once
}

func (f *fakeBookingAPI) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if f.block != nil {
		f.once.Do(func() { close(f.started) })
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &models.Booking{
		ID:             "b-" + req.CheckoutID,
		CarID:          req.CarID,
		Type:           req.Type,
		CheckoutID:     req.CheckoutID,
		PaymentDetails: models.PaymentDetails{Method: req.PaymentMethod, Status: "Completed", TransactionID: "TXN0000000000000001"},
	}, nil
}

func (f *fakeBookingAPI) requests() []models.BookingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.BookingRequest(nil), f.reqs...)
}

// instantPayer approves immediately unless ctx is already done.
type instantPayer struct{ calls int }

func (p *instantPayer) Pay(ctx context.Context, method string, amount int64) (*payment.Result, error) {
	p.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &payment.Result{Method: method, Amount: amount}, nil
}
