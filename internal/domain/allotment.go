package domain

import "time"

type AllotmentStatus string

const (
	AllotmentStatusActive   AllotmentStatus = "ACTIVE"
	AllotmentStatusExtended AllotmentStatus = "EXTENDED"
	AllotmentStatusOverdue  AllotmentStatus = "OVERDUE"
	// RETURNED is terminal. No lifecycle operation moves an allotment out
	// of it and none deletes the record.
	AllotmentStatusReturned AllotmentStatus = "RETURNED"
)

// Open reports whether the status still ties up the asset.
func (s AllotmentStatus) Open() bool {
	return s == AllotmentStatusActive || s == AllotmentStatusExtended || s == AllotmentStatusOverdue
}

type Allotment struct {
	ID             int64      `json:"id"`
	Number         string     `json:"number"` // "ALT-00042", sequence-allocated
	AssetID        int64      `json:"asset_id"`
	OrganizationID int64      `json:"organization_id"`
	HandoverDate   time.Time  `json:"handover_date"`
	DueDate        time.Time  `json:"due_date"`
	SurrenderDate  *time.Time `json:"surrender_date,omitempty"`
	// Money is integer cents. CurrentMonthRentCents is derived and must be
	// refreshed through RecomputeRent whenever rent or days change.
	RentPer30DaysCents    int64           `json:"rent_per_30_days_cents"`
	CurrentMonthDays      int32           `json:"current_month_days"`
	CurrentMonthRentCents int64           `json:"current_month_rent_cents"`
	Status                AllotmentStatus `json:"status"`
	ReturnCondition       AssetCondition  `json:"return_condition,omitempty"`
	Notes                 string          `json:"notes"`
	Extensions            []Extension     `json:"extensions,omitempty"`
	CreatedOn             string          `json:"created_on"`
	UpdatedOn             string          `json:"updated_on"`
}

// Extension is an append-only history entry recorded by every extend
// operation. It is never mutated after creation.
type Extension struct {
	ID              int64     `json:"id"`
	AllotmentID     int64     `json:"allotment_id"`
	PreviousDueDate time.Time `json:"previous_due_date"`
	NewDueDate      time.Time `json:"new_due_date"`
	AdditionalDays  int32     `json:"additional_days"`
	Notes           string    `json:"notes"`
	CreatedOn       time.Time `json:"created_on"`
}

// CurrentMonthRentCents computes rentPer30Days / 30 * days on cents,
// rounded half-up. Every mutator that touches rent or days calls this so
// the derived field is never left stale.
func CurrentMonthRentCents(rentPer30DaysCents int64, currentMonthDays int32) int64 {
	if rentPer30DaysCents <= 0 || currentMonthDays <= 0 {
		return 0
	}
	return (rentPer30DaysCents*int64(currentMonthDays) + 15) / 30
}

// RecomputeRent refreshes the derived CurrentMonthRentCents field.
func (a *Allotment) RecomputeRent() {
	a.CurrentMonthRentCents = CurrentMonthRentCents(a.RentPer30DaysCents, a.CurrentMonthDays)
}
