package models

import "time"

// Transaction is a completed sale. Rows are immutable once inserted;
// creation goes through the sale workflow only.
type Transaction struct {
	ID              int64     `json:"id"`
	VehicleID       int64     `json:"vehicle_id"`
	UserID          string    `json:"user_id"`
	AmountCents     int64     `json:"amount_cents"`
	TransactionDate time.Time `json:"transaction_date"`
}
