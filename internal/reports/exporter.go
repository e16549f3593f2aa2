package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter renders a report type into a downloadable document.
// Returns the file bytes, a filename and a content type.
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeFarmDistribution:
		return e.exportFarmDistribution(format, timestamp, data.FarmDistribution)
	case ReportTypeWateringHistory:
		return e.exportWateringHistory(format, timestamp, data.WateringHistory)
	case ReportTypeAreaSummary:
		return e.exportAreaSummary(format, timestamp, data.AreaSummary)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

//// ============================
/// FARM DISTRIBUTION EXPORTS
//// ============================

func (e *reportExporter) exportFarmDistribution(format, timestamp string, rows []FarmDistributionRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportFarmDistributionExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("farm_distribution_%s.xlsx", timestamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportFarmDistributionPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("farm_distribution_%s.pdf", timestamp), "application/pdf", nil

	case FormatCSV, "":
		data, err := e.exportFarmDistributionCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("farm_distribution_%s.csv", timestamp), "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for farm distribution: %s", format)
	}
}

func formatLastWatered(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}

func (e *reportExporter) exportFarmDistributionCSV(rows []FarmDistributionRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Survey Number", "Owner", "Farmer Code", "Area", "Village", "Farm Size (acres)", "Crop", "Last Watered", "Days Since", "Watering Status", "Approval"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.SurveyNumber,
			r.OwnerName,
			r.FarmerCode,
			r.Area,
			r.VillageName,
			strconv.FormatFloat(r.FarmSize, 'f', 2, 64),
			r.CropType,
			formatLastWatered(r.LastWatered),
			strconv.Itoa(r.DaysSinceWatered),
			r.WateringStatus,
			r.ApprovalStatus,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportFarmDistributionExcel(rows []FarmDistributionRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Farm Distribution"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"Survey Number", "Owner", "Farmer Code", "Area", "Village", "Farm Size", "Crop", "Last Watered", "Days Since", "Watering Status", "Approval"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.SurveyNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.OwnerName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.FarmerCode)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Area)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.VillageName)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.FarmSize)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.CropType)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), formatLastWatered(r.LastWatered))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.DaysSinceWatered)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), r.WateringStatus)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), r.ApprovalStatus)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportFarmDistributionPDF(rows []FarmDistributionRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Farm Distribution Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	headers := []string{"Survey No", "Owner", "Area", "Village", "Acres", "Crop", "Last Watered", "Days", "Status"}
	widths := []float64{28, 45, 30, 35, 18, 30, 40, 15, 25}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.SurveyNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.OwnerName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Area, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.VillageName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, strconv.FormatFloat(r.FarmSize, 'f', 2, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.CropType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[6], 6, formatLastWatered(r.LastWatered), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[7], 6, strconv.Itoa(r.DaysSinceWatered), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[8], 6, r.WateringStatus, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// WATERING HISTORY EXPORTS
//// ============================

func (e *reportExporter) exportWateringHistory(format, timestamp string, rows []WateringHistoryRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportWateringHistoryExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("watering_history_%s.xlsx", timestamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportWateringHistoryPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("watering_history_%s.pdf", timestamp), "application/pdf", nil

	case FormatCSV, "":
		data, err := e.exportWateringHistoryCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("watering_history_%s.csv", timestamp), "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for watering history: %s", format)
	}
}

func (e *reportExporter) exportWateringHistoryCSV(rows []WateringHistoryRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Log ID", "Survey Number", "Area", "Employee", "Timestamp", "Crop Condition", "Remarks", "Photo"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			strconv.FormatUint(uint64(r.LogID), 10),
			r.SurveyNumber,
			r.Area,
			r.EmployeeName,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.CropCondition,
			r.Remarks,
			r.PhotoURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportWateringHistoryExcel(rows []WateringHistoryRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Watering History"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"Log ID", "Survey Number", "Area", "Employee", "Timestamp", "Crop Condition", "Remarks", "Photo"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.LogID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.SurveyNumber)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Area)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.EmployeeName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Timestamp.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.CropCondition)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Remarks)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.PhotoURL)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportWateringHistoryPDF(rows []WateringHistoryRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Watering History Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	headers := []string{"Survey No", "Area", "Employee", "Timestamp", "Condition", "Remarks"}
	widths := []float64{30, 35, 50, 45, 25, 80}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.SurveyNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Area, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.EmployeeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Timestamp.Format("2006-01-02 15:04:05"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.CropCondition, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.Remarks, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// AREA SUMMARY EXPORTS
//// ============================

func (e *reportExporter) exportAreaSummary(format, timestamp string, rows []AreaSummaryRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportAreaSummaryExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("area_summary_%s.xlsx", timestamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportAreaSummaryPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("area_summary_%s.pdf", timestamp), "application/pdf", nil

	case FormatCSV, "":
		data, err := e.exportAreaSummaryCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("area_summary_%s.csv", timestamp), "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for area summary: %s", format)
	}
}

func (e *reportExporter) exportAreaSummaryCSV(rows []AreaSummaryRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Area", "Code", "District", "Total Farms", "Total Acreage", "Overdue Farms"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.AreaName,
			r.Code,
			r.District,
			strconv.FormatInt(r.TotalFarms, 10),
			strconv.FormatFloat(r.TotalAcreage, 'f', 2, 64),
			strconv.FormatInt(r.OverdueFarms, 10),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportAreaSummaryExcel(rows []AreaSummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Area Summary"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"Area", "Code", "District", "Total Farms", "Total Acreage", "Overdue Farms"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.AreaName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Code)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.District)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.TotalFarms)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.TotalAcreage)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.OverdueFarms)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportAreaSummaryPDF(rows []AreaSummaryRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Area Summary Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"Area", "Code", "District", "Farms", "Acreage", "Overdue"}
	widths := []float64{45, 25, 40, 25, 30, 25}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.AreaName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Code, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.District, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, strconv.FormatInt(r.TotalFarms, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, strconv.FormatFloat(r.TotalAcreage, 'f', 2, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, strconv.FormatInt(r.OverdueFarms, 10), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
