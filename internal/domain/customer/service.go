package customer

import (
	"context"
	"customer-api/internal/infrastructure/monitoring"
	"customer-api/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

const customerNotFound = "Customer not found by repository"

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	CreateCustomer(ctx context.Context, fields NewCustomer) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, changes Changes) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.DebugContext(ctx, "Calling repository FindAll")
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))

	logger.DebugContext(ctx, "Calling repository FindByID")
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Successfully retrieved customer")
	return customer, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, fields NewCustomer) (*Customer, error) {
	if err := fields.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Validation failed: missing required fields")
		return nil, err
	}

	s.logger.DebugContext(ctx, "Calling repository Create")
	customer, err := s.repo.Create(ctx, fields)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to create customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	monitoring.RecordCustomerOperation("create")
	s.logger.InfoContext(ctx, "Successfully created new customer", slog.Int64("customerID", customer.ID))
	return customer, nil
}

// UpdateCustomer probes for the customer before writing so that an unknown id
// surfaces as ErrNotFound. The probe and the write are not atomic: a
// concurrent delete between them still yields ErrNotFound from the store.
func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, changes Changes) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))

	logger.DebugContext(ctx, "Calling repository FindByID before update")
	current, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Customer not found by repository for update")
			return nil, ErrNotFound
		}
		logger.ErrorContext(ctx, "Repository error finding customer for update", slog.Any("error", err))
		return nil, fmt.Errorf("cannot find customer %d to update: %w", customerID, err)
	}

	if changes.IsEmpty() {
		logger.InfoContext(ctx, "No fields supplied, skipping write")
		return current, nil
	}

	logger.DebugContext(ctx, "Calling repository Update")
	updated, err := s.repo.Update(ctx, customerID, changes)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Customer disappeared before update completed")
			return nil, ErrNotFound
		}
		logger.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}

	monitoring.RecordCustomerOperation("update")
	logger.InfoContext(ctx, "Successfully updated customer")
	return updated, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	logger := s.logger.With(slog.Int64("customerID", customerID))

	logger.DebugContext(ctx, "Calling repository FindByID before delete")
	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Customer not found by repository for delete")
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "Repository error finding customer for delete", slog.Any("error", err))
		return fmt.Errorf("cannot find customer %d to delete: %w", customerID, err)
	}

	logger.DebugContext(ctx, "Calling repository Delete")
	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Customer disappeared before delete completed")
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	monitoring.RecordCustomerOperation("delete")
	logger.InfoContext(ctx, "Successfully deleted customer")
	return nil
}
