package customer

type Customer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
}

// NewCustomer holds the fields required to create a customer.
type NewCustomer struct {
	Name     string
	Email    string
	Document string
}

// Validate reports ErrMissingRequiredFields when any field is empty.
func (n NewCustomer) Validate() error {
	if n.Name == "" || n.Email == "" || n.Document == "" {
		return ErrMissingRequiredFields
	}
	return nil
}

// Changes is a partial update. Nil fields are left as stored.
type Changes struct {
	Name     *string
	Email    *string
	Document *string
}

func (c Changes) IsEmpty() bool {
	return c.Name == nil && c.Email == nil && c.Document == nil
}

func (c Changes) Apply(cust *Customer) {
	if c.Name != nil {
		cust.Name = *c.Name
	}
	if c.Email != nil {
		cust.Email = *c.Email
	}
	if c.Document != nil {
		cust.Document = *c.Document
	}
}
