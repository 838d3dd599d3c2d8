package postgres

import (
	"context"
	"customer-api/internal/domain/customer"
	"customer-api/internal/infrastructure/monitoring"
	"customer-api/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	findAllCustomersQuery = `SELECT id, name, email, document FROM customers ORDER BY id ASC`

	findCustomerByIDQuery = `SELECT id, name, email, document FROM customers WHERE id = $1`

	insertCustomerQuery = `INSERT INTO customers (name, email, document) VALUES ($1, $2, $3) RETURNING id, name, email, document`

	// NULL arguments keep the stored value.
	updateCustomerQuery = `UPDATE customers SET name = COALESCE($1, name), email = COALESCE($2, email), document = COALESCE($3, document), updated_at = NOW() WHERE id = $4 RETURNING id, name, email, document`

	deleteCustomerQuery = `DELETE FROM customers WHERE id = $1`

	countCustomersQuery = `SELECT COUNT(*) FROM customers`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) FindAll(ctx context.Context) (customers []*customer.Customer, err error) {
	startTime := time.Now()
	defer func() { monitoring.RecordDBQuery("FindAllCustomers", monitoring.QueryStatus(err), time.Since(startTime)) }()

	r.logger.DebugContext(ctx, "Attempting to find all customers")

	rows, err := r.db.Query(ctx, findAllCustomersQuery)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers = make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		if err := rows.Scan(&cust.ID, &cust.Name, &cust.Email, &cust.Document); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, &cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (cust *customer.Customer, err error) {
	startTime := time.Now()
	defer func() { monitoring.RecordDBQuery("FindCustomerByID", monitoring.QueryStatus(err), time.Since(startTime)) }()

	logger := r.logger.With(slog.Int64("customerID", customerID))
	logger.DebugContext(ctx, "Attempting to find customer by ID")

	var found customer.Customer
	err = r.db.QueryRow(ctx, findCustomerByIDQuery, customerID).Scan(
		&found.ID,
		&found.Name,
		&found.Email,
		&found.Document,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.DebugContext(ctx, "Customer not found")
			return nil, customer.ErrNotFound
		}
		logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	return &found, nil
}

func (r *CustomerRepository) Create(ctx context.Context, fields customer.NewCustomer) (cust *customer.Customer, err error) {
	startTime := time.Now()
	defer func() { monitoring.RecordDBQuery("CreateCustomer", monitoring.QueryStatus(err), time.Since(startTime)) }()

	r.logger.DebugContext(ctx, "Attempting to insert new customer")

	var created customer.Customer
	err = r.db.QueryRow(ctx, insertCustomerQuery, fields.Name, fields.Email, fields.Document).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.Document,
	)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation")
			return nil, translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", created.ID))
	return &created, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customerID int64, changes customer.Changes) (cust *customer.Customer, err error) {
	startTime := time.Now()
	defer func() { monitoring.RecordDBQuery("UpdateCustomer", monitoring.QueryStatus(err), time.Since(startTime)) }()

	logger := r.logger.With(slog.Int64("customerID", customerID))
	logger.DebugContext(ctx, "Attempting to update customer")

	var updated customer.Customer
	err = r.db.QueryRow(ctx, updateCustomerQuery, changes.Name, changes.Email, changes.Document, customerID).Scan(
		&updated.ID,
		&updated.Name,
		&updated.Email,
		&updated.Document,
	)
	if err != nil {
		translatedErr := translateDBError(err, logger)
		switch {
		case errors.Is(translatedErr, apperrors.ErrNotFound):
			logger.WarnContext(ctx, "Update matched zero rows, customer likely not found")
			return nil, customer.ErrNotFound
		case errors.Is(translatedErr, apperrors.ErrAlreadyExists):
			logger.WarnContext(ctx, "Failed to update customer due to unique constraint violation")
			return nil, translatedErr
		}
		logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}

	logger.InfoContext(ctx, "Customer updated successfully")
	return &updated, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) (err error) {
	startTime := time.Now()
	defer func() { monitoring.RecordDBQuery("DeleteCustomer", monitoring.QueryStatus(err), time.Since(startTime)) }()

	logger := r.logger.With(slog.Int64("customerID", customerID))
	logger.DebugContext(ctx, "Attempting to delete customer")

	cmdTag, err := r.db.Exec(ctx, deleteCustomerQuery, customerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		logger.WarnContext(ctx, "Delete affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	logger.InfoContext(ctx, "Customer deleted successfully")
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (n int64, err error) {
	startTime := time.Now()
	defer func() { monitoring.RecordDBQuery("CountCustomers", monitoring.QueryStatus(err), time.Since(startTime)) }()

	if err = r.db.QueryRow(ctx, countCustomersQuery).Scan(&n); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to count customers: %w", apperrors.ErrDatabase, err)
	}
	return n, nil
}

func (r *CustomerRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
