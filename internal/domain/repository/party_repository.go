package repository

import (
	"context"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// CustomerRepository is the minimal read port the core needs for customers;
// customer CRUD itself lives outside this service's scope.
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
}

// SupplierRepository is the minimal read port for suppliers.
type SupplierRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
}

// CompanyProfileRepository resolves the issuing company profile. Which
// profile to use comes from configuration, resolved once at startup.
type CompanyProfileRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.CompanyProfile, error)
}
