package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// OrderRepository is the persistence port for the Order aggregate
// (header, items, addresses).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	CreateAddress(ctx context.Context, addr *entity.OrderAddress) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]*entity.OrderItem, error)
	ListAddresses(ctx context.Context, orderID int64) ([]*entity.OrderAddress, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Order, error)
	UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error
	UpdateStatusPayment(ctx context.Context, id int64, status, payment string) error
	Delete(ctx context.Context, id int64) error
}
