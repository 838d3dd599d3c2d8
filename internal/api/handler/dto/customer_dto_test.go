package dto

import (
	"customer-api/internal/domain/customer"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerRequestToNewCustomer(t *testing.T) {
	req := CreateCustomerRequest{Name: "Ada", Email: "ada@x.com", Document: "123"}

	assert.Equal(t, customer.NewCustomer{Name: "Ada", Email: "ada@x.com", Document: "123"}, req.ToNewCustomer())
}

func TestCreateCustomerRequestDecoding(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    customer.NewCustomer
		wantErr bool
	}{
		{"All strings", `{"name":"Ada","email":"ada@x.com","document":"123"}`, customer.NewCustomer{Name: "Ada", Email: "ada@x.com", Document: "123"}, false},
		{"Zero is empty", `{"name":0,"email":"ada@x.com","document":"123"}`, customer.NewCustomer{Email: "ada@x.com", Document: "123"}, false},
		{"False is empty", `{"name":"Ada","email":false,"document":"123"}`, customer.NewCustomer{Name: "Ada", Document: "123"}, false},
		{"Null is empty", `{"name":"Ada","email":"ada@x.com","document":null}`, customer.NewCustomer{Name: "Ada", Email: "ada@x.com"}, false},
		{"Negative zero is empty", `{"name":-0.0}`, customer.NewCustomer{}, false},
		{"Non-zero number rejected", `{"name":1}`, customer.NewCustomer{}, true},
		{"True rejected", `{"name":true}`, customer.NewCustomer{}, true},
		{"Object rejected", `{"name":{}}`, customer.NewCustomer{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateCustomerRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.ToNewCustomer())
		})
	}
}

func TestUpdateCustomerRequestDecoding(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantName  *string
		wantEmail *string
	}{
		{"Only name", `{"name":"Ada L."}`, strPtr("Ada L."), nil},
		{"Null treated as absent", `{"name":null,"email":"a@x.com"}`, nil, strPtr("a@x.com")},
		{"Empty object", `{}`, nil, nil},
		{"Empty string kept", `{"name":""}`, strPtr(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateCustomerRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			changes := req.ToChanges()
			assert.Equal(t, tt.wantName, changes.Name)
			assert.Equal(t, tt.wantEmail, changes.Email)
			assert.Nil(t, changes.Document)
		})
	}
}

func TestNewCustomerResponse(t *testing.T) {
	t.Run("Nil customer", func(t *testing.T) {
		assert.Equal(t, CustomerResponse{}, NewCustomerResponse(nil))
	})

	t.Run("Serialises to the public shape", func(t *testing.T) {
		resp := NewCustomerResponse(&customer.Customer{ID: 1, Name: "Ada", Email: "ada@x.com", Document: "123"})

		body, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"name":"Ada","email":"ada@x.com","document":"123"}`, string(body))
	})
}

func TestNewCustomerListResponse(t *testing.T) {
	t.Run("Empty list serialises as array", func(t *testing.T) {
		body, err := json.Marshal(NewCustomerListResponse(nil))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(body))
	})

	t.Run("Keeps order", func(t *testing.T) {
		resp := NewCustomerListResponse([]*customer.Customer{{ID: 2}, {ID: 1}})
		require.Len(t, resp, 2)
		assert.Equal(t, int64(2), resp[0].ID)
		assert.Equal(t, int64(1), resp[1].ID)
	})
}

func strPtr(s string) *string { return &s }
