package handler

import (
	"customer-api/internal/api/handler/dto"
	"customer-api/internal/domain/customer"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
)

const customerIDParam = "customerID"

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// getCustomerIDFromURL returns customer.ErrNotFound for ids with no leading
// integer: no customer can match them, so they are reported the same way as
// an unknown id.
func getCustomerIDFromURL(r *http.Request) (int64, error) {
	id, ok := parseLeadingInt(chi.URLParam(r, customerIDParam))
	if !ok {
		return 0, customer.ErrNotFound
	}
	return id, nil
}

// parseLeadingInt reads the integer at the start of s and ignores whatever
// follows it, so "12abc" and "12.5" both yield 12. Leading whitespace, a sign
// and a 0x prefix are accepted. Values outside int64 report false.
func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\ufeff' })

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	base, isDigit := 10, isDecimalDigit
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHexDigit
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseUint(s[:end], base, 64)
	if err != nil || n > math.MaxInt64 {
		return 0, false
	}
	if negative {
		return -int64(n), true
	}
	return int64(n), true
}

func isDecimalDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDecimalDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// ListCustomers handles GET /customers
// @Summary List customers
// @Description Retrieves every customer in the store, ordered by id.
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerResponse "List of customers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(r *http.Request) (Result, error) {
	h.logger.DebugContext(r.Context(), "Received list customers request")

	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		return Result{}, err
	}

	return Result{Status: http.StatusOK, Body: dto.NewCustomerListResponse(customers)}, nil
}

// GetCustomer handles GET /customers/{customerID}
// @Summary Retrieve a customer
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID"
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [get]
func (h *CustomerHandler) GetCustomer(r *http.Request) (Result, error) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Unparseable customer ID in URL", slog.String("customerID", chi.URLParam(r, customerIDParam)))
		return Result{}, err
	}

	cust, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		return Result{}, err
	}

	return Result{Status: http.StatusOK, Body: dto.NewCustomerResponse(cust)}, nil
}

// CreateCustomer handles POST /customers
// @Summary Create a customer
// @Description Creates a customer. name, email and document are required and must be non-empty.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CustomerResponse "Customer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields or malformed body"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(r *http.Request) (Result, error) {
	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		return Result{}, err
	}

	cust, err := h.service.CreateCustomer(r.Context(), req.ToNewCustomer())
	if err != nil {
		return Result{}, err
	}

	h.logger.InfoContext(r.Context(), "Customer created", slog.Int64("customerID", cust.ID))
	return Result{Status: http.StatusCreated, Body: dto.NewCustomerResponse(cust)}, nil
}

// UpdateCustomer handles PUT /customers/{customerID}
// @Summary Update a customer
// @Description Replaces the supplied fields. Omitted or null fields keep their stored value.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID"
// @Param request body dto.UpdateCustomerRequest true "Fields to replace"
// @Success 200 {object} dto.CustomerResponse "Customer updated"
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [put]
func (h *CustomerHandler) UpdateCustomer(r *http.Request) (Result, error) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Unparseable customer ID in URL", slog.String("customerID", chi.URLParam(r, customerIDParam)))
		return Result{}, err
	}

	var req dto.UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		return Result{}, err
	}

	cust, err := h.service.UpdateCustomer(r.Context(), customerID, req.ToChanges())
	if err != nil {
		return Result{}, err
	}

	return Result{Status: http.StatusOK, Body: dto.NewCustomerResponse(cust)}, nil
}

// DeleteCustomer handles DELETE /customers/{customerID}
// @Summary Delete a customer
// @Tags Customers
// @Param customerID path int true "Customer ID"
// @Success 204 "Customer deleted"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [delete]
func (h *CustomerHandler) DeleteCustomer(r *http.Request) (Result, error) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Unparseable customer ID in URL", slog.String("customerID", chi.URLParam(r, customerIDParam)))
		return Result{}, err
	}

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		return Result{}, err
	}

	h.logger.InfoContext(r.Context(), "Customer deleted", slog.Int64("customerID", customerID))
	return Result{Status: http.StatusNoContent}, nil
}
