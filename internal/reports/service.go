package reports

import (
	"fmt"

	"github.com/sharath018/farm-irrigation-backend/internal/farm"
)

type Service struct {
	Repo     *Repository
	Exporter ReportExporter
}

func NewService(repo *Repository, exporter ReportExporter) *Service {
	return &Service{Repo: repo, Exporter: exporter}
}

// Generate builds the requested report and renders it in the given format.
func (s *Service) Generate(reportType, format string, filter ReportFilter) ([]byte, string, string, error) {
	var data ReportData

	switch reportType {
	case ReportTypeFarmDistribution:
		rows, err := s.farmDistribution(filter)
		if err != nil {
			return nil, "", "", err
		}
		data.FarmDistribution = rows

	case ReportTypeWateringHistory:
		rows, err := s.wateringHistory(filter)
		if err != nil {
			return nil, "", "", err
		}
		data.WateringHistory = rows

	case ReportTypeAreaSummary:
		rows, err := s.areaSummary()
		if err != nil {
			return nil, "", "", err
		}
		data.AreaSummary = rows

	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}

	return s.Exporter.Export(reportType, format, data)
}

func (s *Service) farmDistribution(filter ReportFilter) ([]FarmDistributionRow, error) {
	farms, err := s.Repo.FarmsForDistribution(filter)
	if err != nil {
		return nil, err
	}

	rows := make([]FarmDistributionRow, 0, len(farms))
	for _, f := range farms {
		days := farm.DaysSinceWatered(f.LastWatered)
		rows = append(rows, FarmDistributionRow{
			ID:               f.ID,
			SurveyNumber:     f.SurveyNumber,
			OwnerName:        f.OwnerName,
			FarmerCode:       f.FarmerCode,
			Area:             f.Area,
			VillageName:      f.VillageName,
			FarmSize:         f.FarmSize,
			CropType:         f.CropType,
			LastWatered:      f.LastWatered,
			DaysSinceWatered: days,
			WateringStatus:   farm.WateringStatus(days),
			ApprovalStatus:   f.ApprovalStatus,
		})
	}
	return rows, nil
}

func (s *Service) wateringHistory(filter ReportFilter) ([]WateringHistoryRow, error) {
	joined, err := s.Repo.WateringVisits(filter)
	if err != nil {
		return nil, err
	}

	rows := make([]WateringHistoryRow, 0, len(joined))
	for _, j := range joined {
		rows = append(rows, WateringHistoryRow{
			LogID:         j.ID,
			SurveyNumber:  j.SurveyNumber,
			Area:          j.Area,
			EmployeeName:  j.EmployeeName,
			Timestamp:     j.Timestamp,
			CropCondition: j.CropCondition,
			Remarks:       j.Remarks,
			PhotoURL:      j.PhotoURL,
		})
	}
	return rows, nil
}

func (s *Service) areaSummary() ([]AreaSummaryRow, error) {
	areas, err := s.Repo.Areas()
	if err != nil {
		return nil, err
	}

	rows := make([]AreaSummaryRow, 0, len(areas))
	for _, a := range areas {
		farms, err := s.Repo.FarmsByArea(a.Name)
		if err != nil {
			return nil, err
		}

		row := AreaSummaryRow{
			AreaName: a.Name,
			Code:     a.Code,
			District: a.District,
		}
		for _, f := range farms {
			row.TotalFarms++
			row.TotalAcreage += f.FarmSize
			if farm.WateringStatus(farm.DaysSinceWatered(f.LastWatered)) == farm.WateringOverdue {
				row.OverdueFarms++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
