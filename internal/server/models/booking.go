package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type BookingType string

const (
	BookingTypeBuy       BookingType = "buy"
	BookingTypeTestDrive BookingType = "test-drive"
)

// Flat fees in rupees.
const (
	RegistrationFee int64 = 15000
	InsuranceFee    int64 = 25000
	TestDriveFee    int64 = 5000
)

// Quote returns the amount charged for a booking of type t on a car priced
// carPrice. Test drives cost the same regardless of the car.
func Quote(t BookingType, carPrice int64) int64 {
	if t == BookingTypeBuy {
		return carPrice + RegistrationFee + InsuranceFee
	}
	return TestDriveFee
}

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
	PaymentWallet     PaymentMethod = "wallet"
	PaymentRazorpay   PaymentMethod = "razorpay"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentUPI, PaymentNetBanking, PaymentWallet, PaymentRazorpay:
		return true
	}
	return false
}

type PaymentStatus string

const PaymentCompleted PaymentStatus = "Completed"

type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

type PaymentDetails struct {
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transactionId"`
}

// BookingDetails is the type-specific part of a booking. It is implemented
// only by PurchaseDetails and TestDriveDetails.
type BookingDetails interface {
	Type() BookingType
	isBookingDetails()
}

// PurchaseDetails belong to a "buy" booking.
type PurchaseDetails struct {
	DeliveryAddress string `json:"deliveryAddress"`
}

func (PurchaseDetails) Type() BookingType { return BookingTypeBuy }
func (PurchaseDetails) isBookingDetails() {}

// TestDriveDetails belong to a "test-drive" booking.
type TestDriveDetails struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (TestDriveDetails) Type() BookingType { return BookingTypeTestDrive }
func (TestDriveDetails) isBookingDetails() {}

// Booking is a purchase or test-drive reservation. CarID is a soft reference:
// Car is nil when the listing has since been deleted.
type Booking struct {
	ID              string          `json:"_id"`
	CarID           string          `json:"carId"`
	Car             *Car            `json:"car"`
	UserID          string          `json:"user"`
	Amount          int64           `json:"amount"`
	CustomerDetails CustomerDetails `json:"customerDetails"`
	PaymentDetails  PaymentDetails  `json:"paymentDetails"`
	Details         BookingDetails  `json:"-"`
	CheckoutID      string          `json:"checkoutId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Type reports the booking type carried by Details.
func (b *Booking) Type() BookingType {
	if b.Details == nil {
		return ""
	}
	return b.Details.Type()
}

func (b Booking) MarshalJSON() ([]byte, error) {
	type plain Booking
	out := struct {
		plain
		Type      BookingType       `json:"type"`
		Purchase  *PurchaseDetails  `json:"purchaseDetails,omitempty"`
		TestDrive *TestDriveDetails `json:"testDriveDetails,omitempty"`
	}{plain: plain(b), Type: b.Type()}

	switch d := b.Details.(type) {
	case PurchaseDetails:
		out.Purchase = &d
	case TestDriveDetails:
		out.TestDrive = &d
	}

	return json.Marshal(out)
}

// MarshalDetails encodes d for the details document column.
func MarshalDetails(d BookingDetails) ([]byte, error) {
	return json.Marshal(d)
}

// UnmarshalDetails decodes the details document stored for a booking of type t.
func UnmarshalDetails(t BookingType, raw []byte) (BookingDetails, error) {
	switch t {
	case BookingTypeBuy:
		var d PurchaseDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case BookingTypeTestDrive:
		var d TestDriveDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown booking type %q", t)
	}
}
