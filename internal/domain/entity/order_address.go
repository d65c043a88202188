package entity

// Address types on an order. Every order owns exactly one of each.
const (
	AddressTypeBilling  = "billing"
	AddressTypeShipping = "shipping"
)

// OrderAddress is a billing or shipping address snapshot owned by an order.
type OrderAddress struct {
	ID           int64
	OrderID      int64
	Type         string
	Name         string
	Email        string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}
