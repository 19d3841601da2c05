package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autodealer/internal/client/client"
	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/client/services"
	"github.com/dmitrijs2005/autodealer/internal/common"
)

func (a *App) buy(ctx context.Context, args []string) error {
	return a.checkout(ctx, args, models.BookingTypeBuy, "buy <car id>")
}

func (a *App) testDrive(ctx context.Context, args []string) error {
	return a.checkout(ctx, args, models.BookingTypeTestDrive, "testdrive <car id>")
}

// checkout drives one booking through details, payment and confirmation.
func (a *App) checkout(ctx context.Context, args []string, bookingType, usage string) error {
	id, err := requireArg(args, usage)
	if err != nil {
		return err
	}

	car, err := a.api.GetCar(ctx, id)
	if err != nil {
		return err
	}
	co, err := services.NewCheckout(a.api, a.payer, *car, bookingType)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Step 1/3: your details for %s %s\n", car.Brand, car.Name)
	for {
		d, err := a.readDetails(bookingType)
		if err != nil {
			return err
		}
		err = co.SubmitDetails(d)
		if err == nil {
			break
		}
		if !errors.Is(err, common.ErrorValidation) {
			return err
		}
		fmt.Fprintf(a.out, "%s, please try again.\n", describe(err))
	}

	fmt.Fprintf(a.out, "Step 2/3: payment of %s\n", common.FormatINR(co.Amount()))
	ok, err := Confirm(a.reader, "Pay now?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Checkout cancelled.")
		return nil
	}

	var b *models.Booking
	for {
		fmt.Fprintln(a.out, "Processing payment...")
		b, err = co.Pay(ctx)
		if err == nil {
			break
		}
		if !errors.Is(err, client.ErrTimeout) && !errors.Is(err, client.ErrUnavailable) {
			return err
		}
		fmt.Fprintf(a.out, "%s.\n", describe(err))
		retry, cerr := Confirm(a.reader, "Try again? You will not be charged twice.", a.out)
		if cerr != nil {
			return cerr
		}
		if !retry {
			return err
		}
	}

	fmt.Fprintln(a.out, "Step 3/3: confirmed!")
	fmt.Fprintf(a.out, "  Booking:     %s\n", b.ID)
	fmt.Fprintf(a.out, "  Amount paid: %s\n", common.FormatINR(b.Amount))
	fmt.Fprintf(a.out, "  Transaction: %s\n", b.PaymentDetails.TransactionID)
	fmt.Fprintf(a.out, "Type 'receipt %s' to see the receipt.\n", b.ID)

	if _, err := a.fetchReceipt(ctx, b); err != nil {
		a.logger.Warn(ctx, "could not cache receipt", "booking", b.ID, "error", err)
	}
	return nil
}

// readDetails asks for the customer fields of bookingType. Name and email
// default to the signed-in account.
func (a *App) readDetails(bookingType string) (services.Details, error) {
	var d services.Details
	s := a.auth.Current()
	if s == nil {
		return d, errNotLoggedIn
	}

	var err error
	ask := func(dst *string, prompt, def string) {
		if err != nil {
			return
		}
		if def != "" {
			prompt = fmt.Sprintf("%s (%s)", prompt, def)
		}
		var v string
		if v, err = getSimpleText(a.reader, prompt, a.out); err == nil {
			if v == "" {
				v = def
			}
			*dst = v
		}
	}

	ask(&d.Customer.Name, "Full name", s.Name)
	ask(&d.Customer.Email, "Email", s.Email)
	ask(&d.Customer.Phone, "Phone", "")

	if bookingType == models.BookingTypeBuy {
		ask(&d.Customer.Address, "Street address", "")
		ask(&d.Customer.City, "City", "")
		ask(&d.Customer.State, "State", "")
		ask(&d.Customer.Pincode, "Pincode", "")
		ask(&d.DeliveryAddress, "Deliver somewhere else? Enter the address or leave empty", "")
	} else {
		d.TestDrive = &models.TestDriveDetails{}
		ask(&d.TestDrive.Date, "Test drive date (YYYY-MM-DD)", "")
		ask(&d.TestDrive.Time, "Time (HH:MM)", "")
	}
	if err != nil {
		return d, err
	}

	d.PaymentMethod, err = GetChoice(a.reader, "Payment method", models.PaymentMethods, "upi", a.out)
	return d, err
}
