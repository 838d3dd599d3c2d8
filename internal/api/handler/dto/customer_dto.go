package dto

import (
	"customer-api/internal/domain/customer"
	"encoding/json"
	"fmt"
)

// RequiredText is a create field. The falsy JSON values null, "", 0 and
// false decode as empty so they fail the presence check; any other
// non-string value is rejected.
type RequiredText string

func (t *RequiredText) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		*t = RequiredText(val)
		return nil
	case bool:
		if !val {
			*t = ""
			return nil
		}
	case float64:
		if val == 0 {
			*t = ""
			return nil
		}
	}
	return fmt.Errorf("expected a string, got %s", data)
}

type CreateCustomerRequest struct {
	Name     RequiredText `json:"name" swaggertype:"string" example:"Ada"`
	Email    RequiredText `json:"email" swaggertype:"string" example:"ada@x.com"`
	Document RequiredText `json:"document" swaggertype:"string" example:"123"`
}

func (r *CreateCustomerRequest) ToNewCustomer() customer.NewCustomer {
	return customer.NewCustomer{
		Name:     string(r.Name),
		Email:    string(r.Email),
		Document: string(r.Document),
	}
}

// UpdateCustomerRequest fields that are absent or null are left unchanged.
type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty" example:"Ada L."`
	Email    *string `json:"email,omitempty"`
	Document *string `json:"document,omitempty"`
}

func (r *UpdateCustomerRequest) ToChanges() customer.Changes {
	return customer.Changes{
		Name:     r.Name,
		Email:    r.Email,
		Document: r.Document,
	}
}

type CustomerResponse struct {
	ID       int64  `json:"id" example:"1"`
	Name     string `json:"name" example:"Ada"`
	Email    string `json:"email" example:"ada@x.com"`
	Document string `json:"document" example:"123"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:       cust.ID,
		Name:     cust.Name,
		Email:    cust.Email,
		Document: cust.Document,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = NewCustomerResponse(cust)
	}
	return resp
}

type ErrorResponse struct {
	Error string `json:"error" example:"Customer not found"`
}
