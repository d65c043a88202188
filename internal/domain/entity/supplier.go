package entity

import "time"

// Supplier provides products and receives purchase orders.
type Supplier struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
