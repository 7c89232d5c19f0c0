package repairs

import "time"

type CreateRepairRequest struct {
	CustomerID int64   `json:"customer_id" validate:"required,gt=0"`
	Device     string  `json:"device" validate:"required,max=200"`
	Issue      string  `json:"issue" validate:"required,max=2000"`
	Fee        float64 `json:"fee" validate:"gte=0"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=received in_progress done picked_up"`
}

type AddPartRequest struct {
	ProductID   *int64     `json:"product_id" validate:"omitempty,gt=0"`
	ProductName string     `json:"product_name" validate:"required,max=200"`
	Quantity    int64      `json:"quantity" validate:"required,gt=0"`
	UnitCost    float64    `json:"unit_cost" validate:"gte=0"`
	UsedAt      *time.Time `json:"used_at"`
}

type ListRepairsRequest struct {
	Status     *Status `json:"status" validate:"omitempty,oneof=received in_progress done picked_up"`
	CustomerID *int64  `json:"customer_id" validate:"omitempty,gt=0"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}

// RepairDetail is a repair with its consumed parts.
type RepairDetail struct {
	Repair
	Parts []RepairPart `json:"parts"`
}
