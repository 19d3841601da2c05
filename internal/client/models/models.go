// Package models defines the client-side shapes of the dealership API
// resources. They mirror the JSON the server returns.
package models

import "time"

type Car struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Price        int64     `json:"price"`
	FuelType     string    `json:"fuelType"`
	Transmission string    `json:"transmission"`
	Year         int       `json:"year"`
	Mileage      int       `json:"mileage"`
	Description  string    `json:"description"`
	Images       []string  `json:"images"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Available reports whether the car can still be booked.
func (c *Car) Available() bool {
	return c.Status == "Available"
}

// CarFilter holds catalog query parameters. Zero values are not sent.
type CarFilter struct {
	Name         string
	Brand        string
	FuelType     string
	Transmission string
	MinPrice     int64
	MaxPrice     int64
	MinYear      int
	MaxYear      int
}

// CarInput is the admin create/update payload. Nil fields are omitted, so an
// update only changes what is set.
type CarInput struct {
	Name         *string  `json:"name,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
	Price        *int64   `json:"price,omitempty"`
	FuelType     *string  `json:"fuelType,omitempty"`
	Transmission *string  `json:"transmission,omitempty"`
	Year         *int     `json:"year,omitempty"`
	Mileage      *int     `json:"mileage,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Images       []string `json:"images,omitempty"`
	Status       *string  `json:"status,omitempty"`
}

type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the authenticated identity returned by register and login.
type Session struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

type DashboardStats struct {
	TotalCars       int64 `json:"totalCars"`
	PendingRequests int64 `json:"pendingRequests"`
	TotalUsers      int64 `json:"totalUsers"`
	TotalBookings   int64 `json:"totalBookings"`
}
