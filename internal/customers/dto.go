package customers

type CreateCustomerRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes *string `json:"notes,omitempty"`
}

type ListCustomersRequest struct {
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
