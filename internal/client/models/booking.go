package models

import "time"

const (
	BookingTypeBuy       = "buy"
	BookingTypeTestDrive = "test-drive"
)

// Flat fees in rupees, as charged by the server.
const (
	RegistrationFee int64 = 15000
	InsuranceFee    int64 = 25000
	TestDriveFee    int64 = 5000
)

// Quote returns the amount the server will charge. It is shown before
// payment; the server's figure is authoritative.
func Quote(bookingType string, carPrice int64) int64 {
	if bookingType == BookingTypeBuy {
		return carPrice + RegistrationFee + InsuranceFee
	}
	return TestDriveFee
}

// PaymentMethods lists the accepted method codes in display order.
var PaymentMethods = []string{"card", "upi", "netbanking", "wallet", "razorpay"}

type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

type TestDriveDetails struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type PurchaseDetails struct {
	DeliveryAddress string `json:"deliveryAddress"`
}

type PaymentDetails struct {
	Method        string `json:"method"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
}

// BookingRequest is the body of POST /api/bookings.
type BookingRequest struct {
	CarID            string            `json:"carId"`
	Type             string            `json:"type"`
	CustomerDetails  CustomerDetails   `json:"customerDetails"`
	PaymentMethod    string            `json:"paymentMethod"`
	TestDriveDetails *TestDriveDetails `json:"testDriveDetails,omitempty"`
	PurchaseDetails  *PurchaseDetails  `json:"purchaseDetails,omitempty"`
	CheckoutID       string            `json:"checkoutId"`
}

// Booking is a confirmed reservation. Car is nil once the listing is deleted.
type Booking struct {
	ID               string            `json:"_id"`
	CarID            string            `json:"carId"`
	Car              *Car              `json:"car"`
	UserID           string            `json:"user"`
	Type             string            `json:"type"`
	Amount           int64             `json:"amount"`
	CustomerDetails  CustomerDetails   `json:"customerDetails"`
	PaymentDetails   PaymentDetails    `json:"paymentDetails"`
	TestDriveDetails *TestDriveDetails `json:"testDriveDetails,omitempty"`
	PurchaseDetails  *PurchaseDetails  `json:"purchaseDetails,omitempty"`
	CheckoutID       string            `json:"checkoutId,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// CarName is the booked car's brand and name, or a placeholder when the
// listing no longer exists.
func (b *Booking) CarName() string {
	if b.Car == nil {
		return "(listing removed)"
	}
	return b.Car.Brand + " " + b.Car.Name
}
