package customer

import (
	"context"
	"customer-api/internal/pkg/apperrors"
)

var (
	ErrNotFound = apperrors.New("NOT_FOUND", "Customer not found", apperrors.ErrNotFound)

	ErrMissingRequiredFields = apperrors.New("VALIDATION", "Missing required fields", apperrors.ErrValidation)
)

// CustomerRepository is the persistence collaborator. Lookups and mutations
// on an unknown id return an error wrapping apperrors.ErrNotFound.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]*Customer, error)

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	Create(ctx context.Context, fields NewCustomer) (*Customer, error)

	Update(ctx context.Context, customerID int64, changes Changes) (*Customer, error)

	Delete(ctx context.Context, customerID int64) error

	Count(ctx context.Context) (int64, error)
}
