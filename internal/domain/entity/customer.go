package entity

import "time"

// Customer is a buying party referenced by orders and invoices.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	GSTIN     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
