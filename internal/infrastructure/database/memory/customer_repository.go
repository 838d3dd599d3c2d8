// Package memory holds an in-process customer store for local runs and tests.
package memory

import (
	"context"
	"customer-api/internal/domain/customer"
	"log/slog"
	"sort"
	"sync"
)

type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[int64]customer.Customer
	lastID    int64
	logger    *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(logger *slog.Logger) *CustomerRepository {
	return &CustomerRepository{
		customers: make(map[int64]customer.Customer),
		logger:    logger.With("component", "MemoryCustomerRepository"),
	}
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]*customer.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		c := c
		customers = append(customers, &c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[customerID]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &c, nil
}

// Create assigns the next id in sequence; ids of deleted customers are never reused.
func (r *CustomerRepository) Create(ctx context.Context, fields customer.NewCustomer) (*customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	c := customer.Customer{
		ID:       r.lastID,
		Name:     fields.Name,
		Email:    fields.Email,
		Document: fields.Document,
	}
	r.customers[c.ID] = c

	r.logger.DebugContext(ctx, "Customer stored", slog.Int64("customerID", c.ID))
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customerID int64, changes customer.Changes) (*customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[customerID]
	if !ok {
		return nil, customer.ErrNotFound
	}
	changes.Apply(&c)
	r.customers[customerID] = c
	return &c, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[customerID]; !ok {
		return customer.ErrNotFound
	}
	delete(r.customers, customerID)
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.customers)), nil
}

func (r *CustomerRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
