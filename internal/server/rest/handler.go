// Package rest exposes the dealership services over a JSON HTTP API built on
// gin. Handlers bind and check request shapes, pass the work to the services
// and translate their sentinel errors into status codes.
package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/logging"
	"github.com/dmitrijs2005/autodealer/internal/server/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const banner = "Auto dealer API is running"

// Deps are the collaborators a Handler needs.
type Deps struct {
	Users        UserService
	Cars         CarService
	Bookings     BookingService
	SellRequests SellRequestService
	Stats        StatsService
	Images       storage.ImageStore

	JWTSecret     []byte
	MaxUploadSize int64
}

// Handler holds the HTTP handlers of every resource.
type Handler struct {
	users         UserService
	cars          CarService
	bookings      BookingService
	sellRequests  SellRequestService
	stats         StatsService
	images        storage.ImageStore
	jwtSecret     []byte
	maxUploadSize int64
	logger        logging.Logger
}

func NewHandler(d Deps, l logging.Logger) *Handler {
	return &Handler{
		users:         d.Users,
		cars:          d.Cars,
		bookings:      d.Bookings,
		sellRequests:  d.SellRequests,
		stats:         d.Stats,
		images:        d.Images,
		jwtSecret:     d.JWTSecret,
		maxUploadSize: d.MaxUploadSize,
		logger:        l.With("module", "rest"),
	}
}

// RouterOptions control the parts of the router that depend on deployment.
type RouterOptions struct {
	// FrontendURL is the allowed CORS origin; "*" allows any origin.
	FrontendURL string
	// UploadDir is served under /uploads when images are kept locally.
	UploadDir string
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger(), cors.New(corsConfig(opts.FrontendURL)))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, banner) })
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if opts.UploadDir != "" {
		r.Static(storage.URLPrefix, opts.UploadDir)
	}

	api := r.Group("/api")
	authed := h.authRequired()
	admin := h.adminOnly()

	a := api.Group("/auth")
	a.POST("/register", h.register)
	a.POST("/login", h.login)

	cars := api.Group("/cars")
	cars.GET("", h.listCars)
	cars.GET("/:id", h.getCar)
	cars.POST("", authed, admin, h.createCar)
	cars.PUT("/:id", authed, admin, h.updateCar)
	cars.DELETE("/:id", authed, admin, h.deleteCar)

	bookings := api.Group("/bookings", authed)
	bookings.POST("", h.createBooking)
	bookings.GET("", admin, h.listBookings)
	bookings.GET("/mine", h.listMyBookings)
	bookings.GET("/:id", h.getBooking)
	bookings.GET("/:id/receipt", h.bookingReceipt)

	adm := api.Group("/admin", authed)
	adm.GET("/users", admin, h.listUsers)
	adm.GET("/dashboard-stats", admin, h.dashboardStats)
	adm.POST("/sell-requests", h.createSellRequest)
	adm.GET("/sell-requests", admin, h.listSellRequests)
	adm.GET("/sell-requests/mine", h.listMySellRequests)
	adm.PUT("/sell-requests/:id", admin, h.updateSellRequest)

	api.POST("/upload", authed, h.upload)

	return r
}

func corsConfig(frontendURL string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", idempotencyHeader, requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if frontendURL == "" || frontendURL == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = []string{frontendURL}
	}
	return cfg
}
