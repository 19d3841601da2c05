package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/autodealer/internal/client/client"
	"github.com/dmitrijs2005/autodealer/internal/client/config"
	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/client/payment"
	"github.com/dmitrijs2005/autodealer/internal/client/repositories"
	"github.com/dmitrijs2005/autodealer/internal/client/repositories/receipts"
	"github.com/dmitrijs2005/autodealer/internal/client/services"
	"github.com/dmitrijs2005/autodealer/internal/client/session"
	"github.com/dmitrijs2005/autodealer/internal/logging"
)

// API is the part of the REST client the terminal uses.
type API interface {
	services.AuthAPI
	services.BookingAPI
	ListCars(ctx context.Context, f models.CarFilter) ([]models.Car, error)
	GetCar(ctx context.Context, id string) (*models.Car, error)
	CreateCar(ctx context.Context, in models.CarInput) (*models.Car, error)
	UpdateCar(ctx context.Context, id string, in models.CarInput) (*models.Car, error)
	DeleteCar(ctx context.Context, id string) error
	ListBookings(ctx context.Context) ([]models.Booking, error)
	MyBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	Receipt(ctx context.Context, id string) (string, error)
	CreateSellRequest(ctx context.Context, d models.SellCarDetails) (*models.SellRequest, error)
	ListSellRequests(ctx context.Context) ([]models.SellRequest, error)
	MySellRequests(ctx context.Context) ([]models.SellRequest, error)
	UpdateSellRequest(ctx context.Context, id, status string) (*models.SellRequest, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	Upload(ctx context.Context, paths ...string) ([]string, error)
}

type App struct {
	config   *config.Config
	api      API
	auth     *services.AuthService
	payer    services.Payer
	receipts receipts.Repository
	reader   *bufio.Reader
	out      io.Writer
	logger   logging.Logger
	closeFn  func() error
}

// NewApp opens the local database, restores the saved session and builds
// the API client.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, "text", c.LogLevel).With("module", "dealerctl")

	repos, err := repositories.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing local database: %w", err)
	}

	store := session.NewStore(repos.Metadata)
	if err := store.Load(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	api := client.New(c.BaseURL, c.RequestTimeout, store)

	return &App{
		config:   c,
		api:      api,
		auth:     services.NewAuthService(api, store),
		payer:    payment.NewSimulator(c.PaymentDelay),
		receipts: repos.Receipts,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		logger:   logger,
		closeFn:  repos.Close,
	}, nil
}

// Run greets the user, reports whether the server is reachable and then
// serves commands until exit or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	fmt.Fprintln(a.out, "Auto dealer terminal (type 'help' for commands)")
	if err := a.auth.Ping(ctx); err != nil {
		a.logger.Warn(ctx, "server not reachable", "url", a.config.BaseURL, "error", err)
		fmt.Fprintf(a.out, "Warning: %s\n", describe(err))
	}
	if s := a.auth.Current(); s != nil {
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", s.Name, s.Email)
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) close() {
	if a.closeFn != nil {
		if err := a.closeFn(); err != nil {
			a.logger.Error(context.Background(), "error closing local database", "error", err)
		}
	}
}

func (a *App) status() string {
	s := a.auth.Current()
	switch {
	case s == nil:
		return ""
	case s.IsAdmin:
		return fmt.Sprintf("(%s admin)", s.Name)
	default:
		return fmt.Sprintf("(%s)", s.Name)
	}
}
