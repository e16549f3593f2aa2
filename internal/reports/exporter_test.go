package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func sampleDistribution() []FarmDistributionRow {
	watered := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return []FarmDistributionRow{
		{
			ID:               1,
			SurveyNumber:     "101/1",
			OwnerName:        "Ravi",
			FarmerCode:       "F-001",
			Area:             "Zone A",
			VillageName:      "Mundur",
			FarmSize:         2.5,
			CropType:         "Paddy",
			LastWatered:      &watered,
			DaysSinceWatered: 12,
			WateringStatus:   "ok",
			ApprovalStatus:   "approved",
		},
		{
			ID:               2,
			SurveyNumber:     "102/3",
			OwnerName:        "Lakshmi",
			FarmerCode:       "F-002",
			Area:             "Zone A",
			DaysSinceWatered: 999,
			WateringStatus:   "overdue",
			ApprovalStatus:   "approved",
		},
	}
}

func TestExportFarmDistributionCSV(t *testing.T) {
	exp := NewReportExporter()

	data, filename, contentType, err := exp.Export(ReportTypeFarmDistribution, FormatCSV, ReportData{
		FarmDistribution: sampleDistribution(),
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if contentType != "text/csv" {
		t.Errorf("content type = %q", contentType)
	}
	if !strings.HasSuffix(filename, ".csv") {
		t.Errorf("filename = %q, want .csv", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	if records[1][0] != "101/1" {
		t.Errorf("first row survey = %q", records[1][0])
	}
	// A never-watered farm shows the sentinel day count and "never".
	if records[2][7] != "never" || records[2][8] != "999" {
		t.Errorf("never-watered row = %v", records[2])
	}
}

func TestExportFarmDistributionBinaryFormats(t *testing.T) {
	exp := NewReportExporter()
	data := ReportData{FarmDistribution: sampleDistribution()}

	xlsx, filename, contentType, err := exp.Export(ReportTypeFarmDistribution, FormatExcel, data)
	if err != nil {
		t.Fatalf("excel export: %v", err)
	}
	if len(xlsx) == 0 {
		t.Error("excel export is empty")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q, want .xlsx", filename)
	}
	if !strings.Contains(contentType, "spreadsheet") {
		t.Errorf("content type = %q", contentType)
	}

	pdf, filename, contentType, err := exp.Export(ReportTypeFarmDistribution, FormatPDF, data)
	if err != nil {
		t.Fatalf("pdf export: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("pdf export should start with the PDF magic bytes")
	}
	if !strings.HasSuffix(filename, ".pdf") {
		t.Errorf("filename = %q, want .pdf", filename)
	}
	if contentType != "application/pdf" {
		t.Errorf("content type = %q", contentType)
	}
}

func TestExportRejectsUnknownTypeAndFormat(t *testing.T) {
	exp := NewReportExporter()

	if _, _, _, err := exp.Export("bogus", FormatCSV, ReportData{}); err == nil {
		t.Fatal("expected an error for an unknown report type")
	}
	if _, _, _, err := exp.Export(ReportTypeFarmDistribution, "docx", ReportData{}); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestExportWateringHistoryCSV(t *testing.T) {
	exp := NewReportExporter()

	rows := []WateringHistoryRow{{
		LogID:         1,
		SurveyNumber:  "101/1",
		Area:          "Zone A",
		EmployeeName:  "Field Employee",
		Timestamp:     time.Date(2026, 8, 15, 7, 30, 0, 0, time.UTC),
		CropCondition: "Good",
		Remarks:       "healthy growth",
		PhotoURL:      "/uploads/photo-abc.jpg",
	}}

	data, _, _, err := exp.Export(ReportTypeWateringHistory, FormatCSV, ReportData{WateringHistory: rows})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(records))
	}
	if records[1][5] != "Good" {
		t.Errorf("crop condition column = %q", records[1][5])
	}
}
