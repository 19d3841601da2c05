package cli

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/autodealer/internal/client/client"
	"github.com/dmitrijs2005/autodealer/internal/common"
)

type access int

const (
	accessPublic access = iota
	accessUser
	accessAdmin
)

var (
	errNotLoggedIn = errors.New("please log in first")
	errNotAdmin    = errors.New("not authorized as an admin")
)

type command struct {
	usage  string
	access access
	run    func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register": {"register                 create an account", accessPublic, (*App).register},
	"login":    {"login                    sign in", accessPublic, (*App).login},
	"cars":     {"cars [key=value ...]     browse cars (brand, name, fuel, transmission, minprice, maxprice, minyear, maxyear)", accessPublic, (*App).listCars},
	"car":      {"car <id>                 show one car", accessPublic, (*App).showCar},

	"logout":    {"logout                   sign out", accessUser, (*App).logout},
	"whoami":    {"whoami                   show the signed-in account", accessUser, (*App).whoami},
	"buy":       {"buy <car id>             buy a car", accessUser, (*App).buy},
	"testdrive": {"testdrive <car id>       book a test drive", accessUser, (*App).testDrive},
	"bookings":  {"bookings                 list your bookings", accessUser, (*App).myBookings},
	"receipt":   {"receipt <booking id>     show a receipt", accessUser, (*App).showReceipt},
	"receipts":  {"receipts                 list receipts saved on this machine", accessUser, (*App).savedReceipts},
	"sell":      {"sell                     offer your car to the dealership", accessUser, (*App).sell},
	"mysell":    {"mysell                   list your sell requests", accessUser, (*App).mySellRequests},

	"users":        {"users                    list users", accessAdmin, (*App).listUsers},
	"stats":        {"stats                    dashboard counters", accessAdmin, (*App).stats},
	"allbookings":  {"allbookings              list every booking", accessAdmin, (*App).allBookings},
	"sellrequests": {"sellrequests             list sell requests", accessAdmin, (*App).sellRequests},
	"approve":      {"approve <request id>     approve a sell request", accessAdmin, (*App).approve},
	"reject":       {"reject <request id>      reject a sell request", accessAdmin, (*App).reject},
	"addcar":       {"addcar                   create a listing", accessAdmin, (*App).addCar},
	"editcar":      {"editcar <id> key=value   change listing fields (name, brand, price, fuel, transmission, year, mileage, description, status)", accessAdmin, (*App).editCar},
	"deletecar":    {"deletecar <id>           remove a listing", accessAdmin, (*App).deleteCar},
	"upload":       {"upload <file> ...        upload images and print their URLs", accessUser, (*App).upload},
}

// allowed reports whether the current session may run a command of level acc.
func (a *App) allowed(acc access) error {
	s := a.auth.Current()
	switch {
	case acc == accessPublic:
		return nil
	case s == nil:
		return errNotLoggedIn
	case acc == accessAdmin && !s.IsAdmin:
		return errNotAdmin
	}
	return nil
}

func (a *App) dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		printlnFn("Unknown command:", name)
		return nil
	}
	if err := a.allowed(cmd.access); err != nil {
		return err
	}

	signedIn := a.auth.Current() != nil
	err := cmd.run(a, ctx, args)
	if err != nil && signedIn && a.auth.Current() == nil {
		printlnFn("Your session has ended, please log in again.")
	}
	return err
}

// help lists the commands the current session can run.
func (a *App) help() string {
	lines := make([]string, 0, len(commands))
	for _, cmd := range commands {
		if a.allowed(cmd.access) == nil {
			lines = append(lines, "  "+cmd.usage)
		}
	}
	sort.Strings(lines)
	lines = append(lines, "  help                     this list", "  exit                     leave")
	return "Available commands:\n" + strings.Join(lines, "\n")
}

// describe turns an error into a line for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrTimeout):
		return "the server did not answer in time, please try again"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	if errors.Is(err, common.ErrorValidation) {
		return strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
	}
	return err.Error()
}
