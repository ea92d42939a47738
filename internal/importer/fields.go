package importer

// Field is the closed set of canonical spreadsheet fields. Header variants
// are data on the field, so nothing downstream of the matcher touches raw
// header strings.
type Field int

const (
	FieldAssetTag Field = iota
	FieldSerialNumber
	FieldModel
	FieldProcessor
	FieldMemory
	FieldStorage
	FieldOrganization
	FieldContactEmail
	FieldHandoverDate
	FieldDueDate
	FieldRentPer30Days
	FieldCurrentMonthDays
	FieldLocation
	FieldNotes
)

var fieldNames = map[Field]string{
	FieldAssetTag:         "ASSET_TAG",
	FieldSerialNumber:     "SERIAL_NUMBER",
	FieldModel:            "MODEL",
	FieldProcessor:        "PROCESSOR",
	FieldMemory:           "MEMORY",
	FieldStorage:          "STORAGE",
	FieldOrganization:     "ORGANIZATION",
	FieldContactEmail:     "CONTACT_EMAIL",
	FieldHandoverDate:     "HANDOVER_DATE",
	FieldDueDate:          "DUE_DATE",
	FieldRentPer30Days:    "RENT_PER_30_DAYS",
	FieldCurrentMonthDays: "CURRENT_MONTH_DAYS",
	FieldLocation:         "LOCATION",
	FieldNotes:            "NOTES",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// fieldVariants lists the header phrasings seen in customer spreadsheets,
// in normalized form. The matcher scores raw headers against these.
var fieldVariants = map[Field][]string{
	FieldAssetTag:         {"asset tag", "asset id", "asset number", "asset code", "tag", "laptop id", "product id"},
	FieldSerialNumber:     {"serial number", "serial no", "serial", "sl no", "service tag", "product serial number"},
	FieldModel:            {"model", "asset model", "laptop model", "model name", "make and model"},
	FieldProcessor:        {"processor", "cpu", "processor type", "chipset"},
	FieldMemory:           {"memory", "ram", "memory gb", "ram size", "ram gb"},
	FieldStorage:          {"storage", "hard disk", "hdd", "ssd", "disk", "disk size", "storage capacity"},
	FieldOrganization:     {"organization", "organisation", "org", "org code", "organization id", "company", "client", "customer"},
	FieldContactEmail:     {"contact email", "email", "contact mail", "email id"},
	FieldHandoverDate:     {"handover date", "handover", "issue date", "allotment date", "start date", "date of issue"},
	FieldDueDate:          {"due date", "expected return date", "return date", "end date", "due"},
	FieldRentPer30Days:    {"monthly rent", "rent per 30 days", "rent", "rent per month", "monthly rental", "rental amount"},
	FieldCurrentMonthDays: {"current month days", "days", "billable days", "no of days", "days in month"},
	FieldLocation:         {"location", "site", "city", "office", "branch"},
	FieldNotes:            {"notes", "remarks", "comments", "description"},
}

// allFields in stable order, for deterministic iteration.
var allFields = []Field{
	FieldAssetTag, FieldSerialNumber, FieldModel, FieldProcessor, FieldMemory,
	FieldStorage, FieldOrganization, FieldContactEmail, FieldHandoverDate,
	FieldDueDate, FieldRentPer30Days, FieldCurrentMonthDays, FieldLocation, FieldNotes,
}

// TemplateHeaders is the canonical header row used by template export and
// by the pre-shaped record path.
func TemplateHeaders() []string {
	return []string{
		"Asset Tag", "Serial Number", "Model", "Processor", "Memory", "Storage",
		"Organization", "Contact Email", "Handover Date", "Due Date",
		"Monthly Rent", "Current Month Days", "Location", "Notes",
	}
}
