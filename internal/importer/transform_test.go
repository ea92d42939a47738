package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
}

func identityMapping() FieldMapping {
	mapping, _ := MatchHeaders(TemplateHeaders())
	return mapping
}

func TestTransformFullRow(t *testing.T) {
	tr := NewTransformer(identityMapping())
	tr.Now = fixedNow

	row := []string{
		"LPT-00123", "5CD1234XYZ", "ThinkPad T14", "i7-1355U", "16GB", "512GB SSD",
		"ACME", "it@acme.example", "2026-08-01", "2026-08-31", "₹3,000", "30", "Bangalore", "spare charger",
	}
	d := tr.Transform(row, "")

	assert.Equal(t, "LPT-00123", d.AssetTag)
	assert.Equal(t, "5CD1234XYZ", d.SerialNumber)
	assert.Equal(t, "ACME", d.OrganizationCode)
	require.NotNil(t, d.MemoryGB)
	assert.Equal(t, int32(16), *d.MemoryGB)
	require.NotNil(t, d.StorageGB)
	assert.Equal(t, int32(512), *d.StorageGB)
	require.NotNil(t, d.HandoverDate)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *d.HandoverDate)
	require.NotNil(t, d.RentPer30DaysCents)
	assert.Equal(t, int64(300000), *d.RentPer30DaysCents)
	require.NotNil(t, d.CurrentMonthRentCents)
	assert.Equal(t, int64(300000), *d.CurrentMonthRentCents)
	assert.Empty(t, d.BadFields)
}

func TestTransformIsDeterministic(t *testing.T) {
	tr := NewTransformer(identityMapping())
	tr.Now = fixedNow

	row := []string{"LPT-1", "", "ThinkPad", "", "8GB", "1TB", "ACME", "", "45000", "", "2500", "", "", ""}
	first := tr.Transform(row, "")
	second := tr.Transform(row, "")
	assert.Equal(t, first, second)
}

func TestTransformDefaults(t *testing.T) {
	tr := NewTransformer(identityMapping())
	tr.Now = fixedNow

	// Handover date and current month days absent.
	row := []string{"LPT-1", "", "ThinkPad", "", "", "", "ACME", "", "", "", "3000", "", "", ""}
	d := tr.Transform(row, "")

	require.NotNil(t, d.HandoverDate)
	assert.Equal(t, fixedNow(), *d.HandoverDate)
	require.NotNil(t, d.CurrentMonthDays)
	assert.Equal(t, int32(30), *d.CurrentMonthDays)
	require.NotNil(t, d.CurrentMonthRentCents)
	assert.Equal(t, int64(300000), *d.CurrentMonthRentCents)
}

func TestTransformBadCellsAreTracked(t *testing.T) {
	tr := NewTransformer(identityMapping())
	tr.Now = fixedNow

	row := []string{"LPT-1", "", "ThinkPad", "", "", "", "ACME", "", "soonish", "", "three thousand", "", "", ""}
	d := tr.Transform(row, "")

	assert.Nil(t, d.HandoverDate)
	assert.Nil(t, d.RentPer30DaysCents)
	assert.Equal(t, "soonish", d.BadFields[FieldHandoverDate.String()])
	assert.Equal(t, "three thousand", d.BadFields[FieldRentPer30Days.String()])
}

func TestTransformOrgHintFallback(t *testing.T) {
	tr := NewTransformer(identityMapping())
	tr.Now = fixedNow

	row := []string{"LPT-1", "", "ThinkPad", "", "", "", "", "", "", "", "", "", "", ""}
	d := tr.Transform(row, "GLOBEX")
	assert.Equal(t, "GLOBEX", d.OrganizationCode)

	row[6] = "ACME"
	d = tr.Transform(row, "GLOBEX")
	assert.Equal(t, "ACME", d.OrganizationCode)
}

func TestParseDate(t *testing.T) {
	mar15 := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2023-03-15", mar15, true},
		{"15/03/2023", mar15, true},
		{"15-03-2023", mar15, true},
		{"15.3.2023", mar15, true},
		{"15 Mar 2023", mar15, true},
		// Spreadsheet serial for the same day.
		{"45000", mar15, true},
		// Ambiguous day/month reads day-first.
		{"05-04-2024", time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), true},
		// Day position over 12 forces month-first.
		{"04-13-2024", time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
		{"150", time.Time{}, false}, // numeric but outside the serial window
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseMemoryGB(t *testing.T) {
	tests := []struct {
		raw  string
		want int32
		ok   bool
	}{
		{"8GB", 8, true},
		{"16 GB", 16, true},
		{"8192MB", 8, true},
		{"32", 32, true},
		{"1TB", 1024, true},
		{"lots", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseMemoryGB(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestParseStorageGB(t *testing.T) {
	tests := []struct {
		raw  string
		want int32
		ok   bool
	}{
		{"512GB SSD", 512, true},
		{"1TB", 1024, true},
		{"500 GB HDD", 500, true},
		{"256GB NVMe", 256, true},
		{"big", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseStorageGB(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestParseMoneyCents(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"3000", 300000, true},
		{"3,000.50", 300050, true},
		{"$1234.56", 123456, true},
		{"₹ 2,500", 250000, true},
		{"Rs. 1500", 150000, true},
		{"(200)", -20000, true},
		{"-75", -7500, true},
		{"free", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseMoneyCents(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "LPT-1", CleanCell("\ufeffLPT-1 "))
	assert.Equal(t, "5CD123", CleanCell(`="5CD123"`))
	assert.Equal(t, "", CleanCell("   "))
}
