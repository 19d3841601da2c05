package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/common"
)

var fuelTypes = []string{"Petrol", "Diesel", "Electric", "Hybrid"}
var transmissions = []string{"Manual", "Automatic"}

func (a *App) sell(ctx context.Context, _ []string) error {
	var d models.SellCarDetails
	var err error

	if d.Brand, err = getSimpleText(a.reader, "Brand", a.out); err != nil {
		return err
	}
	if d.Name, err = getSimpleText(a.reader, "Model", a.out); err != nil {
		return err
	}
	year, err := GetNumber(a.reader, "Year", 0, a.out)
	if err != nil {
		return err
	}
	d.Year = int(year)
	mileage, err := GetNumber(a.reader, "Kilometres driven", 0, a.out)
	if err != nil {
		return err
	}
	d.Mileage = int(mileage)
	if d.Price, err = GetNumber(a.reader, "Expected price in rupees", 0, a.out); err != nil {
		return err
	}
	if d.FuelType, err = GetChoice(a.reader, "Fuel", fuelTypes, "", a.out); err != nil {
		return err
	}
	if d.Transmission, err = GetChoice(a.reader, "Transmission", transmissions, "", a.out); err != nil {
		return err
	}
	if d.Description, err = getSimpleText(a.reader, "Anything else we should know? (optional)", a.out); err != nil {
		return err
	}

	photo, err := getSimpleText(a.reader, "Path to a photo (optional)", a.out)
	if err != nil {
		return err
	}
	if photo != "" {
		urls, err := a.api.Upload(ctx, photo)
		if err != nil {
			return err
		}
		d.Image = urls[0]
	}

	sr, err := a.api.CreateSellRequest(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Thanks! Request %s is %s; our team will get back to you.\n", sr.ID, sr.Status)
	return nil
}

func (a *App) mySellRequests(ctx context.Context, _ []string) error {
	list, err := a.api.MySellRequests(ctx)
	if err != nil {
		return err
	}
	return a.printSellRequests(list, false)
}

func (a *App) printSellRequests(list []models.SellRequest, withUser bool) error {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No sell requests.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	header := "ID\tDATE\tCAR\tYEAR\tKM\tASKING\tSTATUS"
	if withUser {
		header += "\tFROM"
	}
	fmt.Fprintln(tw, header)
	for _, sr := range list {
		d := sr.CarDetails
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%d\t%s\t%s\t%s",
			sr.ID, sr.CreatedAt.Format("2006-01-02"), d.Brand, d.Name, d.Year,
			common.GroupINR(int64(d.Mileage)), common.FormatINR(d.Price), sr.Status)
		if withUser {
			fmt.Fprintf(tw, "\t%s <%s>", sr.UserName, sr.UserEmail)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
