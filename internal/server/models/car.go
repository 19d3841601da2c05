package models

import "time"

type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelElectric FuelType = "Electric"
	FuelHybrid   FuelType = "Hybrid"
)

func (f FuelType) Valid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

func (t Transmission) Valid() bool {
	return t == TransmissionManual || t == TransmissionAutomatic
}

type CarStatus string

const (
	CarAvailable CarStatus = "Available"
	CarSold      CarStatus = "Sold"
)

func (s CarStatus) Valid() bool {
	return s == CarAvailable || s == CarSold
}

// Car is a vehicle listing. Price is in whole rupees.
type Car struct {
	ID           string       `json:"_id"`
	Name         string       `json:"name"`
	Brand        string       `json:"brand"`
	Price        int64        `json:"price"`
	FuelType     FuelType     `json:"fuelType"`
	Transmission Transmission `json:"transmission"`
	Year         int          `json:"year"`
	Mileage      int          `json:"mileage"`
	Description  string       `json:"description"`
	Images       []string     `json:"images"`
	Status       CarStatus    `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// CarFilter is the conjunction of optional catalog predicates. Zero values
// and nil bounds impose no constraint.
type CarFilter struct {
	Name         string
	Brand        string
	FuelType     FuelType
	Transmission Transmission
	Status       CarStatus
	MinPrice     *int64
	MaxPrice     *int64
	MinYear      *int
	MaxYear      *int
	MinMileage   *int
	MaxMileage   *int
}

// CarPatch lists the fields an admin update may change. Nil means "keep".
type CarPatch struct {
	Name         *string
	Brand        *string
	Price        *int64
	FuelType     *FuelType
	Transmission *Transmission
	Year         *int
	Mileage      *int
	Description  *string
	Images       []string
	Status       *CarStatus
}

// Apply merges p into c.
func (p CarPatch) Apply(c *Car) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Brand != nil {
		c.Brand = *p.Brand
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.FuelType != nil {
		c.FuelType = *p.FuelType
	}
	if p.Transmission != nil {
		c.Transmission = *p.Transmission
	}
	if p.Year != nil {
		c.Year = *p.Year
	}
	if p.Mileage != nil {
		c.Mileage = *p.Mileage
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Images != nil {
		c.Images = p.Images
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}
