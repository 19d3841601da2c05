package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/common"
)

// parseFilter reads key=value catalog filters.
func parseFilter(args []string) (models.CarFilter, error) {
	var f models.CarFilter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			return f, fmt.Errorf("%w: filters look like key=value, got %q", common.ErrorValidation, arg)
		}

		var err error
		switch strings.ToLower(key) {
		case "brand":
			f.Brand = value
		case "name":
			f.Name = value
		case "fuel":
			f.FuelType = value
		case "transmission":
			f.Transmission = value
		case "minprice":
			f.MinPrice, err = strconv.ParseInt(value, 10, 64)
		case "maxprice":
			f.MaxPrice, err = strconv.ParseInt(value, 10, 64)
		case "minyear":
			f.MinYear, err = strconv.Atoi(value)
		case "maxyear":
			f.MaxYear, err = strconv.Atoi(value)
		default:
			return f, fmt.Errorf("%w: unknown filter %q", common.ErrorValidation, key)
		}
		if err != nil {
			return f, fmt.Errorf("%w: %s must be a whole number", common.ErrorValidation, key)
		}
	}
	return f, nil
}

func (a *App) listCars(ctx context.Context, args []string) error {
	f, err := parseFilter(args)
	if err != nil {
		return err
	}

	cars, err := a.api.ListCars(ctx, f)
	if err != nil {
		return err
	}
	if len(cars) == 0 {
		fmt.Fprintln(a.out, "No cars match.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCAR\tYEAR\tFUEL\tGEARBOX\tKM\tPRICE\tSTATUS")
	for _, c := range cars {
		fmt.Fprintf(tw, "%s\t%s %s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Brand, c.Name, c.Year, c.FuelType, c.Transmission,
			common.GroupINR(int64(c.Mileage)), common.FormatINR(c.Price), c.Status)
	}
	return tw.Flush()
}

func requireArg(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: usage: %s", common.ErrorValidation, usage)
	}
	return args[0], nil
}

func (a *App) showCar(ctx context.Context, args []string) error {
	id, err := requireArg(args, "car <id>")
	if err != nil {
		return err
	}

	c, err := a.api.GetCar(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s (%d)  %s\n", c.Brand, c.Name, c.Year, c.Status)
	fmt.Fprintf(a.out, "  Price:        %s\n", common.FormatINR(c.Price))
	fmt.Fprintf(a.out, "  Fuel:         %s\n", c.FuelType)
	fmt.Fprintf(a.out, "  Transmission: %s\n", c.Transmission)
	fmt.Fprintf(a.out, "  Mileage:      %s km\n", common.GroupINR(int64(c.Mileage)))
	if c.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", c.Description)
	}
	for _, img := range c.Images {
		fmt.Fprintf(a.out, "  image: %s\n", img)
	}
	if c.Available() {
		fmt.Fprintf(a.out, "Buy for %s or book a test drive for %s.\n",
			common.FormatINR(models.Quote(models.BookingTypeBuy, c.Price)),
			common.FormatINR(models.TestDriveFee))
	}
	return nil
}
