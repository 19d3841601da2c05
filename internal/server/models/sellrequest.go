package models

import "time"

type SellRequestStatus string

const (
	SellRequestPending  SellRequestStatus = "Pending"
	SellRequestApproved SellRequestStatus = "Approved"
	SellRequestRejected SellRequestStatus = "Rejected"
)

// CanTransitionTo reports whether s may move to next. Only Pending moves,
// and only to a terminal state.
func (s SellRequestStatus) CanTransitionTo(next SellRequestStatus) bool {
	return s == SellRequestPending && (next == SellRequestApproved || next == SellRequestRejected)
}

// SellCarDetails describe the vehicle a user offers to the dealership.
type SellCarDetails struct {
	Name         string       `json:"name"`
	Brand        string       `json:"brand"`
	Price        int64        `json:"price"`
	Year         int          `json:"year"`
	FuelType     FuelType     `json:"fuelType"`
	Transmission Transmission `json:"transmission,omitempty"`
	Mileage      int          `json:"mileage"`
	Description  string       `json:"description,omitempty"`
	Image        string       `json:"image,omitempty"`
}

// SellRequest is a user's proposal to list their car, reviewed by an admin.
// UserName and UserEmail are filled on admin listings.
type SellRequest struct {
	ID         string            `json:"_id"`
	UserID     string            `json:"user"`
	UserName   string            `json:"userName,omitempty"`
	UserEmail  string            `json:"userEmail,omitempty"`
	CarDetails SellCarDetails    `json:"carDetails"`
	Status     SellRequestStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
