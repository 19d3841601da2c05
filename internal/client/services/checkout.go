package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/client/payment"
	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/google/uuid"
)

// Step is the position of a checkout in its flow.
type Step int

const (
	StepDetails Step = iota
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	ErrWrongStep         = errors.New("checkout is not at this step")
	ErrPaymentInProgress = errors.New("payment already in progress")
)

// BookingAPI is the part of the API client checkout needs.
type BookingAPI interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
}

// Payer approves a payment of amount with method.
type Payer interface {
	Pay(ctx context.Context, method string, amount int64) (*payment.Result, error)
}

// Details is what the customer enters at the first step. TestDrive is
// required for test drives; DeliveryAddress may replace the customer's
// postal fields for purchases.
type Details struct {
	Customer        models.CustomerDetails
	PaymentMethod   string
	TestDrive       *models.TestDriveDetails
	DeliveryAddress string
}

// Checkout walks one booking through Details, Payment and Confirmation. The
// checkout id is minted once, when details are first accepted, and is sent
// with every submission so the server records at most one booking for it.
type Checkout struct {
	mu          sync.Mutex
	api         BookingAPI
	payer       Payer
	car         models.Car
	bookingType string
	step        Step
	paying      bool
	checkoutID  string
	req         models.BookingRequest
	booking     *models.Booking
	now         func() time.Time
}

// NewCheckout starts a checkout of bookingType for car.
func NewCheckout(api BookingAPI, payer Payer, car models.Car, bookingType string) (*Checkout, error) {
	if bookingType != models.BookingTypeBuy && bookingType != models.BookingTypeTestDrive {
		return nil, fmt.Errorf("%w: invalid booking type %q", common.ErrorValidation, bookingType)
	}
	if !car.Available() {
		return nil, common.ErrCarNotAvailable
	}
	return &Checkout{api: api, payer: payer, car: car, bookingType: bookingType, now: time.Now}, nil
}

func (c *Checkout) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Amount is the quoted charge for this checkout.
func (c *Checkout) Amount() int64 {
	return models.Quote(c.bookingType, c.car.Price)
}

func (c *Checkout) CheckoutID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkoutID
}

// Booking returns the confirmed booking, or nil before confirmation.
func (c *Checkout) Booking() *models.Booking {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.booking
}

// SubmitDetails validates d and moves to the payment step. It may be called
// again from the payment step to correct details.
func (c *Checkout) SubmitDetails(d Details) error {
	if err := c.validate(&d); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step == StepConfirmation || c.paying {
		return ErrWrongStep
	}
	if c.checkoutID == "" {
		c.checkoutID = uuid.NewString()
	}

	c.req = models.BookingRequest{
		CarID:           c.car.ID,
		Type:            c.bookingType,
		CustomerDetails: d.Customer,
		PaymentMethod:   d.PaymentMethod,
		CheckoutID:      c.checkoutID,
	}
	if c.bookingType == models.BookingTypeTestDrive {
		td := *d.TestDrive
		c.req.TestDriveDetails = &td
	} else if d.DeliveryAddress != "" {
		c.req.PurchaseDetails = &models.PurchaseDetails{DeliveryAddress: d.DeliveryAddress}
	}
	c.step = StepPayment
	return nil
}

// Pay runs the simulated payment and then records the booking. Once
// confirmed, further calls return the same booking without contacting the
// server. If ctx ends or the server fails, the checkout stays at the payment
// step and Pay can be retried with the same checkout id.
func (c *Checkout) Pay(ctx context.Context) (*models.Booking, error) {
	c.mu.Lock()
	switch {
	case c.step == StepConfirmation:
		b := c.booking
		c.mu.Unlock()
		return b, nil
	case c.step != StepPayment:
		c.mu.Unlock()
		return nil, ErrWrongStep
	case c.paying:
		c.mu.Unlock()
		return nil, ErrPaymentInProgress
	}
	c.paying = true
	req := c.req
	c.mu.Unlock()

	booking, err := c.pay(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.paying = false
	if err != nil {
		return nil, err
	}
	c.booking = booking
	c.step = StepConfirmation
	return booking, nil
}

func (c *Checkout) pay(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if _, err := c.payer.Pay(ctx, req.PaymentMethod, c.Amount()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.api.CreateBooking(ctx, req)
}

func (c *Checkout) validate(d *Details) error {
	cust := &d.Customer
	cust.Name = strings.TrimSpace(cust.Name)
	cust.Email = strings.TrimSpace(cust.Email)
	cust.Phone = strings.TrimSpace(cust.Phone)
	d.DeliveryAddress = strings.TrimSpace(d.DeliveryAddress)

	if cust.Name == "" || cust.Email == "" || cust.Phone == "" {
		return fmt.Errorf("%w: name, email and phone are required", common.ErrorValidation)
	}
	if _, err := mail.ParseAddress(cust.Email); err != nil {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if !slices.Contains(models.PaymentMethods, d.PaymentMethod) {
		return fmt.Errorf("%w: invalid payment method %q", common.ErrorValidation, d.PaymentMethod)
	}

	if c.bookingType == models.BookingTypeBuy {
		if d.DeliveryAddress == "" && (strings.TrimSpace(cust.Address) == "" || strings.TrimSpace(cust.City) == "" ||
			strings.TrimSpace(cust.State) == "" || strings.TrimSpace(cust.Pincode) == "") {
			return fmt.Errorf("%w: address, city, state and pincode are required", common.ErrorValidation)
		}
		return nil
	}

	td := d.TestDrive
	if td == nil || strings.TrimSpace(td.Date) == "" || strings.TrimSpace(td.Time) == "" {
		return fmt.Errorf("%w: test drive date and time are required", common.ErrorValidation)
	}
	td.Date, td.Time = strings.TrimSpace(td.Date), strings.TrimSpace(td.Time)
	date, err := time.Parse(time.DateOnly, td.Date)
	if err != nil {
		return fmt.Errorf("%w: test drive date must be YYYY-MM-DD", common.ErrorValidation)
	}
	if _, err := time.Parse("15:04", td.Time); err != nil {
		return fmt.Errorf("%w: test drive time must be HH:MM", common.ErrorValidation)
	}
	if date.Before(c.now().UTC().Truncate(24 * time.Hour)) {
		return fmt.Errorf("%w: test drive date is in the past", common.ErrorValidation)
	}
	return nil
}
