package models

import "time"

type SellCarDetails struct {
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Price        int64  `json:"price"`
	Year         int    `json:"year"`
	FuelType     string `json:"fuelType"`
	Transmission string `json:"transmission,omitempty"`
	Mileage      int    `json:"mileage"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
}

type SellRequest struct {
	ID         string         `json:"_id"`
	UserID     string         `json:"user"`
	UserName   string         `json:"userName,omitempty"`
	UserEmail  string         `json:"userEmail,omitempty"`
	CarDetails SellCarDetails `json:"carDetails"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}
