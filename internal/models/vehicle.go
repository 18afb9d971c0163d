package models

import (
	"errors"
	"strings"
	"time"
)

type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "available"
	VehicleSold      VehicleStatus = "sold"
)

func (s VehicleStatus) Valid() bool {
	return s == VehicleAvailable || s == VehicleSold
}

type Vehicle struct {
	ID         int64         `json:"id"`
	Brand      string        `json:"brand"`
	Model      string        `json:"model"`
	Year       int           `json:"year"`
	PriceCents int64         `json:"price_cents"`
	Status     VehicleStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.Brand) == "" {
		return errors.New("brand required")
	}
	if strings.TrimSpace(v.Model) == "" {
		return errors.New("model required")
	}
	if v.Year < 1900 {
		return errors.New("invalid year")
	}
	if v.PriceCents < 0 {
		return errors.New("price must be >= 0")
	}
	if v.Status == "" {
		v.Status = VehicleAvailable
	}
	if !v.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}
