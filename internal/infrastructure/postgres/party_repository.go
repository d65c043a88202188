package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository       = (*CustomerRepo)(nil)
	_ repository.SupplierRepository       = (*SupplierRepo)(nil)
	_ repository.CompanyProfileRepository = (*CompanyProfileRepo)(nil)
)

// CustomerRepo implements the CustomerRepository read port on PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository builds the customer adapter. Pass pool or tx.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID loads one customer.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(gstin, ''), COALESCE(address, ''), created_at, updated_at
		FROM customers WHERE id = $1`
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.GSTIN, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// SupplierRepo implements the SupplierRepository read port on PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository builds the supplier adapter. Pass pool or tx.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// GetByID loads one supplier.
func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at
		FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// CompanyProfileRepo implements the CompanyProfileRepository read port on
// PostgreSQL.
type CompanyProfileRepo struct {
	q Querier
}

// NewCompanyProfileRepository builds the company profile adapter. Pass pool or tx.
func NewCompanyProfileRepository(q Querier) *CompanyProfileRepo {
	return &CompanyProfileRepo{q: q}
}

// GetByID loads one company profile.
func (r *CompanyProfileRepo) GetByID(ctx context.Context, id int64) (*entity.CompanyProfile, error) {
	query := `
		SELECT id, name, COALESCE(address, ''), COALESCE(gstin, ''), COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at
		FROM company_profiles WHERE id = $1`
	var p entity.CompanyProfile
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Address, &p.GSTIN, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get company profile: %w", err)
	}
	return &p, nil
}
