package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
)

// RenderReceipt formats b as a plain-text receipt. Bookings whose car has
// been deleted still render, without the vehicle section.
func RenderReceipt(b *models.Booking) string {
	var sb strings.Builder
	line := strings.Repeat("=", 44)

	fmt.Fprintln(&sb, line)
	fmt.Fprintln(&sb, "  BOOKING RECEIPT")
	fmt.Fprintln(&sb, line)
	fmt.Fprintf(&sb, "Booking ID:      %s\n", b.ID)
	fmt.Fprintf(&sb, "Date:            %s\n", b.CreatedAt.In(time.UTC).Format("02 Jan 2006 15:04 MST"))
	fmt.Fprintf(&sb, "Type:            %s\n", receiptType(b.Type()))
	fmt.Fprintln(&sb)

	if b.Car != nil {
		fmt.Fprintln(&sb, "Vehicle")
		fmt.Fprintf(&sb, "  %s %s (%d)\n", b.Car.Brand, b.Car.Name, b.Car.Year)
		fmt.Fprintf(&sb, "  %s, %s, %s km\n", b.Car.FuelType, b.Car.Transmission, common.GroupINR(int64(b.Car.Mileage)))
		fmt.Fprintln(&sb)
	}

	fmt.Fprintln(&sb, "Customer")
	fmt.Fprintf(&sb, "  %s\n  %s\n  %s\n", b.CustomerDetails.Name, b.CustomerDetails.Email, b.CustomerDetails.Phone)
	switch d := b.Details.(type) {
	case models.PurchaseDetails:
		fmt.Fprintf(&sb, "  Delivery: %s\n", d.DeliveryAddress)
	case models.TestDriveDetails:
		fmt.Fprintf(&sb, "  Test drive: %s at %s\n", d.Date, d.Time)
	}
	fmt.Fprintln(&sb)

	fmt.Fprintln(&sb, "Charges")
	if b.Type() == models.BookingTypeBuy {
		price := b.Amount - models.RegistrationFee - models.InsuranceFee
		fmt.Fprintf(&sb, "  %-22s %s\n", "Vehicle price", common.FormatINR(price))
		fmt.Fprintf(&sb, "  %-22s %s\n", "Registration", common.FormatINR(models.RegistrationFee))
		fmt.Fprintf(&sb, "  %-22s %s\n", "Insurance", common.FormatINR(models.InsuranceFee))
	} else {
		fmt.Fprintf(&sb, "  %-22s %s\n", "Booking fee", common.FormatINR(b.Amount))
	}
	fmt.Fprintf(&sb, "  %-22s %s\n", "Total paid", common.FormatINR(b.Amount))
	fmt.Fprintln(&sb)

	fmt.Fprintln(&sb, "Payment")
	fmt.Fprintf(&sb, "  Method:         %s\n", b.PaymentDetails.Method)
	fmt.Fprintf(&sb, "  Status:         %s\n", b.PaymentDetails.Status)
	fmt.Fprintf(&sb, "  Transaction ID: %s\n", b.PaymentDetails.TransactionID)
	fmt.Fprintln(&sb, line)

	return sb.String()
}

func receiptType(t models.BookingType) string {
	if t == models.BookingTypeBuy {
		return "Vehicle purchase"
	}
	return "Test drive"
}
