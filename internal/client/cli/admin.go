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

func (a *App) listUsers(ctx context.Context, _ []string) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tADMIN\tJOINED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", u.ID, u.Name, u.Email, u.IsAdmin, u.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

func (a *App) stats(ctx context.Context, _ []string) error {
	s, err := a.api.DashboardStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cars:             %d\n", s.TotalCars)
	fmt.Fprintf(a.out, "Pending requests: %d\n", s.PendingRequests)
	fmt.Fprintf(a.out, "Users:            %d\n", s.TotalUsers)
	fmt.Fprintf(a.out, "Bookings:         %d\n", s.TotalBookings)
	return nil
}

func (a *App) sellRequests(ctx context.Context, _ []string) error {
	list, err := a.api.ListSellRequests(ctx)
	if err != nil {
		return err
	}
	return a.printSellRequests(list, true)
}

func (a *App) approve(ctx context.Context, args []string) error {
	return a.review(ctx, args, "Approved", "approve <request id>")
}

func (a *App) reject(ctx context.Context, args []string) error {
	return a.review(ctx, args, "Rejected", "reject <request id>")
}

func (a *App) review(ctx context.Context, args []string, status, usage string) error {
	id, err := requireArg(args, usage)
	if err != nil {
		return err
	}
	sr, err := a.api.UpdateSellRequest(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Request %s is now %s.\n", sr.ID, sr.Status)
	return nil
}

func (a *App) addCar(ctx context.Context, _ []string) error {
	var in models.CarInput
	var name, brand, fuel, transmission, description, images string
	var err error

	prompts := []struct {
		dst    *string
		prompt string
	}{
		{&brand, "Brand"},
		{&name, "Model"},
		{&description, "Description (optional)"},
		{&images, "Image files or URLs, separated by spaces (optional)"},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.prompt, a.out); err != nil {
			return err
		}
	}
	price, err := GetNumber(a.reader, "Price in rupees", 0, a.out)
	if err != nil {
		return err
	}
	year, err := GetNumber(a.reader, "Year", 0, a.out)
	if err != nil {
		return err
	}
	mileage, err := GetNumber(a.reader, "Kilometres driven", 0, a.out)
	if err != nil {
		return err
	}
	if fuel, err = GetChoice(a.reader, "Fuel", fuelTypes, "Petrol", a.out); err != nil {
		return err
	}
	if transmission, err = GetChoice(a.reader, "Transmission", transmissions, "Manual", a.out); err != nil {
		return err
	}

	y, m := int(year), int(mileage)
	in.Name, in.Brand, in.Price, in.Year, in.Mileage = &name, &brand, &price, &y, &m
	in.FuelType, in.Transmission = &fuel, &transmission
	if description != "" {
		in.Description = &description
	}
	if in.Images, err = a.resolveImages(ctx, strings.Fields(images)); err != nil {
		return err
	}

	car, err := a.api.CreateCar(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Listed %s %s as %s.\n", car.Brand, car.Name, car.ID)
	return nil
}

// resolveImages uploads local files and keeps anything that already looks
// like a URL.
func (a *App) resolveImages(ctx context.Context, refs []string) ([]string, error) {
	var files []string
	for _, r := range refs {
		if !isURL(r) {
			files = append(files, r)
		}
	}

	uploaded, err := a.api.Upload(ctx, files...)
	if err != nil {
		return nil, err
	}
	if len(uploaded) != len(files) {
		return nil, fmt.Errorf("uploaded %d of %d images", len(uploaded), len(files))
	}

	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if isURL(r) {
			out = append(out, r)
			continue
		}
		out = append(out, uploaded[0])
		uploaded = uploaded[1:]
	}
	return out, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "/uploads/")
}

// editCar applies key=value changes; fields not named stay as they are.
func (a *App) editCar(ctx context.Context, args []string) error {
	id, err := requireArg(args, "editcar <id> key=value ...")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: nothing to change", common.ErrorValidation)
	}

	var in models.CarInput
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("%w: changes look like key=value, got %q", common.ErrorValidation, arg)
		}
		if err := setCarField(&in, strings.ToLower(key), value); err != nil {
			return err
		}
	}

	car, err := a.api.UpdateCar(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s %s: %s, %s.\n", car.Brand, car.Name, common.FormatINR(car.Price), car.Status)
	return nil
}

func setCarField(in *models.CarInput, key, value string) error {
	number := func() (int64, error) {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %s must be a whole number", common.ErrorValidation, key)
		}
		return n, nil
	}

	switch key {
	case "name":
		in.Name = &value
	case "brand":
		in.Brand = &value
	case "fuel":
		in.FuelType = &value
	case "transmission":
		in.Transmission = &value
	case "description":
		in.Description = &value
	case "status":
		in.Status = &value
	case "price":
		n, err := number()
		if err != nil {
			return err
		}
		in.Price = &n
	case "year", "mileage":
		n, err := number()
		if err != nil {
			return err
		}
		v := int(n)
		if key == "year" {
			in.Year = &v
		} else {
			in.Mileage = &v
		}
	default:
		return fmt.Errorf("%w: unknown field %q", common.ErrorValidation, key)
	}
	return nil
}

func (a *App) deleteCar(ctx context.Context, args []string) error {
	id, err := requireArg(args, "deletecar <id>")
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete listing %s? Existing bookings are kept.", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.api.DeleteCar(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Car removed.")
	return nil
}

func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: upload <file> ...", common.ErrorValidation)
	}
	urls, err := a.api.Upload(ctx, args...)
	if err != nil {
		return err
	}
	for _, u := range urls {
		fmt.Fprintln(a.out, u)
	}
	return nil
}
