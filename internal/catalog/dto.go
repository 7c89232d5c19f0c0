package catalog

type CreateProductRequest struct {
	Code     string  `json:"code" validate:"required,max=50"`
	Name     string  `json:"name" validate:"required,max=200"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Price    float64 `json:"price" validate:"gte=0"`
	Cost     float64 `json:"cost" validate:"gte=0"`
	// InitialStock seeds the cached counter for stock on hand at
	// registration time; it has no matching ledger event.
	InitialStock int64 `json:"initial_stock" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Category *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Cost     *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool    `json:"is_active,omitempty"`
}

type ListProductsRequest struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
