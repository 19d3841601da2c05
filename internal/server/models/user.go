// Package models defines server-side data models persisted in the database
// and returned by the REST API.
package models

import "time"

// User is a registered customer or administrator. PasswordHash never leaves
// the server.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DashboardStats are the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalCars       int64 `json:"totalCars"`
	PendingRequests int64 `json:"pendingRequests"`
	TotalUsers      int64 `json:"totalUsers"`
	TotalBookings   int64 `json:"totalBookings"`
}
