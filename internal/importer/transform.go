package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"allotrack-backend/internal/domain"
)

// Draft is the typed candidate produced from one raw row. Transformation
// never fails: absent or unparsable cells leave their field zero/nil, and
// cells that were present but unparsable are recorded in BadFields so the
// validator can attribute the failure.
type Draft struct {
	AssetTag              string
	SerialNumber          string
	Model                 string
	Processor             string
	MemoryGB              *int32
	StorageGB             *int32
	OrganizationCode      string
	ContactEmail          string
	HandoverDate          *time.Time
	DueDate               *time.Time
	RentPer30DaysCents    *int64
	CurrentMonthDays      *int32
	CurrentMonthRentCents *int64
	Location              string
	Notes                 string
	Status                domain.AllotmentStatus

	// BadFields maps canonical field name to the raw cell value that
	// failed to parse.
	BadFields map[string]string
}

// Transformer converts raw rows into Drafts using a resolved FieldMapping.
type Transformer struct {
	mapping FieldMapping
	// Now is swappable so transformation stays deterministic under test.
	Now func() time.Time
}

func NewTransformer(mapping FieldMapping) *Transformer {
	return &Transformer{mapping: mapping, Now: time.Now}
}

// Transform builds a Draft from one raw row. orgHint supplies the
// organization code when the sheet carries no organization column
// (one-sheet-per-organization workbooks).
func (t *Transformer) Transform(row []string, orgHint string) *Draft {
	d := &Draft{
		Status:    domain.AllotmentStatusActive,
		BadFields: make(map[string]string),
	}

	d.AssetTag = t.cell(row, FieldAssetTag)
	d.SerialNumber = t.cell(row, FieldSerialNumber)
	d.Model = t.cell(row, FieldModel)
	d.Processor = t.cell(row, FieldProcessor)
	d.ContactEmail = t.cell(row, FieldContactEmail)
	d.Location = t.cell(row, FieldLocation)
	d.Notes = t.cell(row, FieldNotes)

	d.OrganizationCode = t.cell(row, FieldOrganization)
	if d.OrganizationCode == "" {
		d.OrganizationCode = strings.TrimSpace(orgHint)
	}

	if raw := t.cell(row, FieldMemory); raw != "" {
		if gb, ok := ParseMemoryGB(raw); ok {
			d.MemoryGB = &gb
		}
	}
	if raw := t.cell(row, FieldStorage); raw != "" {
		if gb, ok := ParseStorageGB(raw); ok {
			d.StorageGB = &gb
		}
	}

	if raw := t.cell(row, FieldHandoverDate); raw != "" {
		if parsed, ok := ParseDate(raw); ok {
			d.HandoverDate = &parsed
		} else {
			d.BadFields[FieldHandoverDate.String()] = raw
		}
	} else {
		now := t.Now()
		d.HandoverDate = &now
	}

	if raw := t.cell(row, FieldDueDate); raw != "" {
		if parsed, ok := ParseDate(raw); ok {
			d.DueDate = &parsed
		} else {
			d.BadFields[FieldDueDate.String()] = raw
		}
	}

	if raw := t.cell(row, FieldRentPer30Days); raw != "" {
		if cents, ok := ParseMoneyCents(raw); ok {
			d.RentPer30DaysCents = &cents
		} else {
			d.BadFields[FieldRentPer30Days.String()] = raw
		}
	}

	if raw := t.cell(row, FieldCurrentMonthDays); raw != "" {
		if days, err := strconv.ParseInt(raw, 10, 32); err == nil {
			v := int32(days)
			d.CurrentMonthDays = &v
		} else {
			d.BadFields[FieldCurrentMonthDays.String()] = raw
		}
	} else {
		v := int32(30)
		d.CurrentMonthDays = &v
	}

	if d.RentPer30DaysCents != nil && d.CurrentMonthDays != nil {
		rent := domain.CurrentMonthRentCents(*d.RentPer30DaysCents, *d.CurrentMonthDays)
		d.CurrentMonthRentCents = &rent
	}

	return d
}

func (t *Transformer) cell(row []string, f Field) string {
	match, ok := t.mapping[f]
	if !ok || match.Column < 0 || match.Column >= len(row) {
		return ""
	}
	return CleanCell(row[match.Column])
}

// spreadsheetEpoch is the day-zero of spreadsheet serial dates. The epoch
// is 1899-12-30 rather than 1900-01-01: serial 1 is nominally 1900-01-01
// and the 1900 leap-year bug shifts everything by one more day.
var spreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial values outside this window are treated as plain numbers, not
// dates (roughly 1905 through 2173).
const (
	minSerialDate = 2000
	maxSerialDate = 100000
)

var dateLayouts = []string{
	// ISO first: unambiguous.
	"2006-01-02", "2006/01/02",
	// Day-first before month-first; see day 13+ disambiguation note in
	// ParseDate.
	"02-01-2006", "2-1-2006",
	"02/01/2006", "2/1/2006",
	"02.01.2006", "2.1.2006",
	// Month-first, for US-style sheets.
	"01-02-2006", "1-2-2006",
	"01/02/2006", "1/2/2006",
	// Textual months.
	"2 Jan 2006", "02-Jan-2006", "Jan 2, 2006",
}

// ParseDate decodes a spreadsheet cell into a calendar date. Accepts
// spreadsheet serial day numbers (epoch 1899-12-30) and the common string
// forms. Day-first layouts are tried before month-first, so an ambiguous
// cell like "05-04-2024" reads as 5 April; month-first only applies when
// the day position exceeds 12.
func ParseDate(raw string) (time.Time, bool) {
	raw = CleanCell(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial < minSerialDate || serial > maxSerialDate {
			return time.Time{}, false
		}
		// The fractional part is time-of-day; callers only need the date.
		return spreadsheetEpoch.AddDate(0, 0, int(serial)), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseMemoryGB normalizes RAM sizes like "8GB", "16 GB" or "8192MB" to
// whole gigabytes.
func ParseMemoryGB(raw string) (int32, bool) {
	value, unit, ok := splitUnit(raw)
	if !ok {
		return 0, false
	}
	switch unit {
	case "", "G", "GB":
		return int32(math.Round(value)), true
	case "MB":
		return int32(math.Round(value / 1024)), true
	case "TB":
		return int32(math.Round(value * 1024)), true
	default:
		return 0, false
	}
}

// ParseStorageGB normalizes disk sizes like "512GB SSD", "1TB" or
// "500 GB HDD" to whole gigabytes. Media suffixes are ignored.
func ParseStorageGB(raw string) (int32, bool) {
	cleaned := strings.ToUpper(CleanCell(raw))
	for _, media := range []string{"SSD", "HDD", "NVME", "EMMC"} {
		cleaned = strings.ReplaceAll(cleaned, media, "")
	}
	return ParseMemoryGB(cleaned)
}

// splitUnit separates "8192 MB" into (8192, "MB").
func splitUnit(raw string) (float64, string, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	cut := len(cleaned)
	for cut > 0 {
		c := cleaned[cut-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		cut--
	}
	numPart := strings.TrimSpace(cleaned[:cut])
	unit := strings.TrimSpace(cleaned[cut:])
	if numPart == "" {
		return 0, "", false
	}
	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, "", false
	}
	return value, unit, true
}

// ParseMoneyCents parses a currency cell into integer cents. Currency
// symbols, thousands separators and the accounting "(123)" negative form
// are tolerated; the sign survives so the validator can reject negatives.
func ParseMoneyCents(raw string) (int64, bool) {
	s := CleanCell(raw)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	for _, symbol := range []string{"$", "₹", "€", "£", "Rs.", "Rs", "INR", "USD"} {
		s = strings.ReplaceAll(s, symbol, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		value = -value
	}
	return int64(math.Round(value * 100)), true
}
