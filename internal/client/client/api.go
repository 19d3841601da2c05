package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/autodealer/internal/client/models"
)

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{Name: name, Email: email, Password: password}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{Email: email, Password: password}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListCars returns the catalog filtered by f, newest first.
func (c *HTTPClient) ListCars(ctx context.Context, f models.CarFilter) ([]models.Car, error) {
	q := url.Values{}
	setQuery(q, "carName", f.Name)
	setQuery(q, "brand", f.Brand)
	setQuery(q, "fuelType", f.FuelType)
	setQuery(q, "transmission", f.Transmission)
	if f.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatInt(f.MaxPrice, 10))
	}
	if f.MinYear > 0 {
		q.Set("minYear", strconv.Itoa(f.MinYear))
	}
	if f.MaxYear > 0 {
		q.Set("maxYear", strconv.Itoa(f.MaxYear))
	}

	path := "/api/cars"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var cars []models.Car
	if err := c.do(ctx, http.MethodGet, path, nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func setQuery(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

func (c *HTTPClient) GetCar(ctx context.Context, id string) (*models.Car, error) {
	var car models.Car
	if err := c.do(ctx, http.MethodGet, "/api/cars/"+url.PathEscape(id), nil, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *HTTPClient) CreateCar(ctx context.Context, in models.CarInput) (*models.Car, error) {
	var car models.Car
	if err := c.do(ctx, http.MethodPost, "/api/cars", in, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *HTTPClient) UpdateCar(ctx context.Context, id string, in models.CarInput) (*models.Car, error) {
	var car models.Car
	if err := c.do(ctx, http.MethodPut, "/api/cars/"+url.PathEscape(id), in, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *HTTPClient) DeleteCar(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cars/"+url.PathEscape(id), nil, nil)
}

// CreateBooking submits a paid checkout. The server answers a replay of the
// same checkout id with the booking it already recorded.
func (c *HTTPClient) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	var b models.Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return c.bookings(ctx, "/api/bookings")
}

func (c *HTTPClient) MyBookings(ctx context.Context) ([]models.Booking, error) {
	return c.bookings(ctx, "/api/bookings/mine")
}

func (c *HTTPClient) bookings(ctx context.Context, path string) ([]models.Booking, error) {
	var list []models.Booking
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Receipt downloads the plain-text receipt of a booking.
func (c *HTTPClient) Receipt(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/bookings/"+url.PathEscape(id)+"/receipt", nil)
	if err != nil {
		return "", err
	}

	var text string
	err = c.send(req, func(r io.Reader) error {
		raw, err := io.ReadAll(r)
		text = string(raw)
		return err
	})
	return text, err
}

type sellRequestBody struct {
	CarDetails models.SellCarDetails `json:"carDetails"`
}

func (c *HTTPClient) CreateSellRequest(ctx context.Context, d models.SellCarDetails) (*models.SellRequest, error) {
	var sr models.SellRequest
	if err := c.do(ctx, http.MethodPost, "/api/admin/sell-requests", sellRequestBody{CarDetails: d}, &sr); err != nil {
		return nil, err
	}
	return &sr, nil
}

func (c *HTTPClient) ListSellRequests(ctx context.Context) ([]models.SellRequest, error) {
	return c.sellRequests(ctx, "/api/admin/sell-requests")
}

func (c *HTTPClient) MySellRequests(ctx context.Context) ([]models.SellRequest, error) {
	return c.sellRequests(ctx, "/api/admin/sell-requests/mine")
}

func (c *HTTPClient) sellRequests(ctx context.Context, path string) ([]models.SellRequest, error) {
	var list []models.SellRequest
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) UpdateSellRequest(ctx context.Context, id, status string) (*models.SellRequest, error) {
	var sr models.SellRequest
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPut, "/api/admin/sell-requests/"+url.PathEscape(id), body, &sr); err != nil {
		return nil, err
	}
	return &sr, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/dashboard-stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
