package domain

type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "AVAILABLE"
	AssetStatusAllotted    AssetStatus = "ALLOTTED"
	AssetStatusMaintenance AssetStatus = "MAINTENANCE"
	AssetStatusRetired     AssetStatus = "RETIRED"
)

type AssetCondition string

const (
	AssetConditionGood    AssetCondition = "GOOD"
	AssetConditionDamaged AssetCondition = "DAMAGED"
)

type Asset struct {
	ID           int64       `json:"id"`
	AssetTag     string      `json:"asset_tag"`
	SerialNumber string      `json:"serial_number"`
	Model        string      `json:"model"`
	Processor    string      `json:"processor"`
	MemoryGB     int32       `json:"memory_gb"`
	StorageGB    int32       `json:"storage_gb"`
	Location     string      `json:"location"`
	Status       AssetStatus `json:"status"`
	// CurrentAllotmentID points at the single open (non-RETURNED) allotment,
	// nil when the asset is not allotted.
	CurrentAllotmentID *int64 `json:"current_allotment_id,omitempty"`
	CreatedOn          string `json:"created_on"`
	UpdatedOn          string `json:"updated_on"`
}
