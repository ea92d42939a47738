package domain

type Organization struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
	// TotalAllotments counts every allotment ever created for the org.
	// ActiveAllotments counts allotments in ACTIVE, EXTENDED or OVERDUE.
	TotalAllotments  int32  `json:"total_allotments"`
	ActiveAllotments int32  `json:"active_allotments"`
	CreatedOn        string `json:"created_on"`
	UpdatedOn        string `json:"updated_on"`
}
