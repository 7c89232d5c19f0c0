package repairs

import "time"

// Status tracks a repair through its lifecycle.
type Status string

const (
	StatusReceived   Status = "received"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusPickedUp   Status = "picked_up"
)

// validTransitions lists the allowed next statuses for each status.
var validTransitions = map[Status][]Status{
	StatusReceived:   {StatusInProgress},
	StatusInProgress: {StatusDone},
	StatusDone:       {StatusPickedUp},
	StatusPickedUp:   {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Repair struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	CustomerID int64      `json:"customer_id"`
	Device     string     `json:"device"`
	Issue      string     `json:"issue"`
	Status     Status     `json:"status"`
	Fee        float64    `json:"fee"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	PickedUpAt *time.Time `json:"picked_up_at,omitempty"`
}

// RepairPart records a product consumed by a repair. ProductID may be
// nil when the part was typed in free-form; ProductName carries the
// text either way, so the reconciler can attribute the consumption by
// id or by name.
type RepairPart struct {
	ID          int64     `json:"id"`
	RepairID    int64     `json:"repair_id"`
	ProductID   *int64    `json:"product_id,omitempty"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	UnitCost    float64   `json:"unit_cost"`
	UsedAt      time.Time `json:"used_at"`
}
