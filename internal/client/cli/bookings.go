package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/client/repositories/receipts"
	"github.com/dmitrijs2005/autodealer/internal/common"
)

func (a *App) myBookings(ctx context.Context, _ []string) error {
	list, err := a.api.MyBookings(ctx)
	if err != nil {
		return err
	}
	return a.printBookings(list, false)
}

func (a *App) allBookings(ctx context.Context, _ []string) error {
	list, err := a.api.ListBookings(ctx)
	if err != nil {
		return err
	}
	return a.printBookings(list, true)
}

func (a *App) printBookings(list []models.Booking, withCustomer bool) error {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No bookings yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	header := "ID\tDATE\tTYPE\tCAR\tAMOUNT\tPAYMENT"
	if withCustomer {
		header += "\tCUSTOMER"
	}
	fmt.Fprintln(tw, header)
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s",
			b.ID, b.CreatedAt.Format("2006-01-02"), b.Type, b.CarName(),
			common.FormatINR(b.Amount), b.PaymentDetails.Status)
		if withCustomer {
			fmt.Fprintf(tw, "\t%s <%s>", b.CustomerDetails.Name, b.CustomerDetails.Email)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func (a *App) showReceipt(ctx context.Context, args []string) error {
	id, err := requireArg(args, "receipt <booking id>")
	if err != nil {
		return err
	}

	if r, err := a.receipts.Get(ctx, id); err == nil {
		fmt.Fprint(a.out, r.Body)
		return nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		a.logger.Warn(ctx, "receipt cache unreadable", "error", err)
	}

	b, err := a.api.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	text, err := a.fetchReceipt(ctx, b)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, text)
	return nil
}

// fetchReceipt downloads the receipt of b and keeps a copy in the local cache.
func (a *App) fetchReceipt(ctx context.Context, b *models.Booking) (string, error) {
	text, err := a.api.Receipt(ctx, b.ID)
	if err != nil {
		return "", err
	}

	r := &receipts.Receipt{
		BookingID:     b.ID,
		UserID:        b.UserID,
		CarName:       b.CarName(),
		BookingType:   b.Type,
		Amount:        b.Amount,
		TransactionID: b.PaymentDetails.TransactionID,
		Body:          text,
		CreatedAt:     b.CreatedAt,
	}
	if err := a.receipts.Save(ctx, r); err != nil {
		a.logger.Warn(ctx, "could not cache receipt", "booking", b.ID, "error", err)
	}
	return text, nil
}

func (a *App) savedReceipts(ctx context.Context, _ []string) error {
	list, err := a.receipts.ListByUser(ctx, a.auth.Current().ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No receipts saved on this machine.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BOOKING\tDATE\tTYPE\tCAR\tAMOUNT\tTRANSACTION")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.BookingID, r.CreatedAt.Format("2006-01-02"), r.BookingType, r.CarName,
			common.FormatINR(r.Amount), r.TransactionID)
	}
	return tw.Flush()
}
