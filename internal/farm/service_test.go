package farm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sharath018/farm-irrigation-backend/internal/area"
	"github.com/sharath018/farm-irrigation-backend/internal/auditlog"
	"github.com/sharath018/farm-irrigation-backend/internal/auth"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(&auth.User{}, &area.Area{}, &Farm{}, &auditlog.AuditLog{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	authRepo := auth.NewRepository(db)
	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	svc := NewService(NewRepository(db), authRepo, auditSvc)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, role, areaName string) auth.User {
	t.Helper()
	u := auth.User{
		Name:         role + " user",
		Email:        fmt.Sprintf("%s-%d-%s@test.local", role, time.Now().UnixNano(), areaName),
		PasswordHash: "x",
		Role:         role,
		Area:         areaName,
		Status:       "active",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedArea(t *testing.T, db *gorm.DB, name, code string) area.Area {
	t.Helper()
	a := area.Area{Name: name, Code: code, District: "Test District", State: "Test State", Status: "active"}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed area: %v", err)
	}
	return a
}

func asCaller(u auth.User) Caller {
	return Caller{ID: u.ID, Role: u.Role, Area: u.Area}
}

func TestSubmitFarmLandsPending(t *testing.T) {
	svc, db := newTestService(t)
	emp := seedUser(t, db, auth.RoleEmployee, "Zone A")

	f, err := svc.SubmitFarm(context.Background(), CreateInput{
		OwnerName:    "Ravi",
		FarmerPhone:  "9000000001",
		FarmerCode:   "F-001",
		SurveyNumber: "101/1",
		FarmSize:     2.5,
	}, asCaller(emp), "127.0.0.1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if f.ApprovalStatus != ApprovalPending {
		t.Errorf("approval status = %q, want pending", f.ApprovalStatus)
	}
	if f.Status != "pending" {
		t.Errorf("status = %q, want pending", f.Status)
	}
	if f.Area != "Zone A" {
		t.Errorf("area = %q, want the submitter's zone", f.Area)
	}
	if f.AssignedEmployeeID == nil || *f.AssignedEmployeeID != emp.ID {
		t.Error("farm should be assigned to the submitting employee")
	}
	if f.WateringCycle != 7 {
		t.Errorf("watering cycle = %d, want default 7", f.WateringCycle)
	}
	if f.IrrigationMethod != "drip" {
		t.Errorf("irrigation method = %q, want default drip", f.IrrigationMethod)
	}
}

func TestCreateFarmRequiresKnownArea(t *testing.T) {
	svc, db := newTestService(t)
	admin := seedUser(t, db, auth.RoleAdmin, "")

	_, err := svc.CreateFarm(context.Background(), CreateInput{
		OwnerName:    "Ravi",
		FarmerPhone:  "9000000001",
		FarmerCode:   "F-001",
		SurveyNumber: "101/1",
		Area:         "Nowhere",
	}, asCaller(admin), "127.0.0.1")
	if !errors.Is(err, ErrAreaNotFound) {
		t.Fatalf("expected ErrAreaNotFound, got %v", err)
	}
}

func TestCreateFarmBumpsAreaAggregates(t *testing.T) {
	svc, db := newTestService(t)
	admin := seedUser(t, db, auth.RoleAdmin, "")
	seedArea(t, db, "Zone A", "ZA")

	for i, size := range []float64{2.5, 4.0} {
		_, err := svc.CreateFarm(context.Background(), CreateInput{
			OwnerName:    "Owner",
			FarmerPhone:  "9000000001",
			FarmerCode:   fmt.Sprintf("F-%d", i),
			SurveyNumber: fmt.Sprintf("10%d/1", i),
			Area:         "Zone A",
			FarmSize:     size,
		}, asCaller(admin), "127.0.0.1")
		if err != nil {
			t.Fatalf("create farm %d: %v", i, err)
		}
	}

	var a area.Area
	if err := db.Where("name = ?", "Zone A").First(&a).Error; err != nil {
		t.Fatalf("load area: %v", err)
	}
	if a.TotalFarms != 2 {
		t.Errorf("total farms = %d, want 2", a.TotalFarms)
	}
	if a.TotalArea != 6.5 {
		t.Errorf("total area = %v, want 6.5", a.TotalArea)
	}
}

func TestDuplicateSurveyNumber(t *testing.T) {
	svc, db := newTestService(t)
	emp := seedUser(t, db, auth.RoleEmployee, "Zone A")

	in := CreateInput{
		OwnerName:    "Ravi",
		FarmerPhone:  "9000000001",
		FarmerCode:   "F-001",
		SurveyNumber: "101/1",
	}
	if _, err := svc.SubmitFarm(context.Background(), in, asCaller(emp), "127.0.0.1"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	in.FarmerCode = "F-002"
	_, err := svc.SubmitFarm(context.Background(), in, asCaller(emp), "127.0.0.1")
	if !errors.Is(err, ErrDuplicateSurvey) {
		t.Fatalf("expected ErrDuplicateSurvey, got %v", err)
	}
}

func submitTestFarm(t *testing.T, svc *Service, emp auth.User, survey, code string) *Farm {
	t.Helper()
	f, err := svc.SubmitFarm(context.Background(), CreateInput{
		OwnerName:    "Owner",
		FarmerPhone:  "9000000001",
		FarmerCode:   code,
		SurveyNumber: survey,
		FarmSize:     1,
	}, asCaller(emp), "127.0.0.1")
	if err != nil {
		t.Fatalf("submit farm %s: %v", survey, err)
	}
	return f
}

func TestApproveFarm(t *testing.T) {
	svc, db := newTestService(t)
	admin := seedUser(t, db, auth.RoleAdmin, "")
	emp := seedUser(t, db, auth.RoleEmployee, "Zone A")
	f := submitTestFarm(t, svc, emp, "101/1", "F-001")

	approved, err := svc.Approve(context.Background(), f.ID, ApproveInput{
		Location: &LocationInput{Coordinates: []float64{76.3, 10.1}},
	}, asCaller(admin), "127.0.0.1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	if approved.ApprovalStatus != ApprovalApproved {
		t.Errorf("approval status = %q, want approved", approved.ApprovalStatus)
	}
	if approved.Status != "active" {
		t.Errorf("status = %q, want active", approved.Status)
	}
	if approved.ApprovedByID == nil || *approved.ApprovedByID != admin.ID {
		t.Error("approver should be recorded")
	}
	if approved.ApprovedAt == nil {
		t.Error("approval time should be recorded")
	}

	coords := approved.Coordinates()
	if len(coords) != 2 || coords[0] != 76.3 || coords[1] != 10.1 {
		t.Errorf("coordinates = %v, want [76.3 10.1]", coords)
	}
}

func TestApproveTwiceConflicts(t *testing.T) {
	svc, db := newTestService(t)
	admin := seedUser(t, db, auth.RoleAdmin, "")
	emp := seedUser(t, db, auth.RoleEmployee, "Zone A")
	f := submitTestFarm(t, svc, emp, "101/1", "F-001")

	if _, err := svc.Approve(context.Background(), f.ID, ApproveInput{}, asCaller(admin), "127.0.0.1"); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	_, err := svc.Approve(context.Background(), f.ID, ApproveInput{}, asCaller(admin), "127.0.0.1")
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}

	// A rejected farm cannot be approved either, and vice versa.
	_, err = svc.Reject(context.Background(), f.ID, "late", asCaller(admin), "127.0.0.1")
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed on reject after approve, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc, db := newTestService(t)
	admin := seedUser(t, db, auth.RoleAdmin, "")
	emp := seedUser(t, db, auth.RoleEmployee, "Zone A")
	f := submitTestFarm(t, svc, emp, "101/1", "F-001")

	if _, err := svc.Reject(context.Background(), f.ID, "", asCaller(admin), "127.0.0.1"); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	rejected, err := svc.Reject(context.Background(), f.ID, "duplicate entry", asCaller(admin), "127.0.0.1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.ApprovalStatus != ApprovalRejected {
		t.Errorf("approval status = %q, want rejected", rejected.ApprovalStatus)
	}
	if rejected.RejectionReason != "duplicate entry" {
		t.Errorf("rejection reason = %q", rejected.RejectionReason)
	}
	// Rejection records the decision but leaves the farm status alone.
	if rejected.Status != "pending" {
		t.Errorf("status = %q, want pending after rejection", rejected.Status)
	}
}

func TestApproveLocationFallbacks(t *testing.T) {
	svc, db := newTestService(t)
	admin := seedUser(t, db, auth.RoleAdmin, "")
	emp := seedUser(t, db, auth.RoleEmployee, "Zone A")

	// Out-of-range latitude is dropped; the farm keeps its submitted pin.
	f := submitTestFarm(t, svc, emp, "101/1", "F-001")
	f.SetCoordinates([]float64{76.0, 10.0})
	if err := db.Model(&Farm{}).Where("id = ?", f.ID).Update("location", f.Location).Error; err != nil {
		t.Fatalf("set existing location: %v", err)
	}

	approved, err := svc.Approve(context.Background(), f.ID, ApproveInput{
		Latitude:  100.0,
		Longitude: 50.0,
	}, asCaller(admin), "127.0.0.1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	coords := approved.Coordinates()
	if len(coords) != 2 || coords[0] != 76.0 || coords[1] != 10.0 {
		t.Errorf("coordinates = %v, want the existing pin kept", coords)
	}

	// No input and no usable existing pin lands on the origin point.
	f2 := submitTestFarm(t, svc, emp, "102/1", "F-002")
	if err := db.Model(&Farm{}).Where("id = ?", f2.ID).Update("location", nil).Error; err != nil {
		t.Fatalf("clear location: %v", err)
	}
	approved2, err := svc.Approve(context.Background(), f2.ID, ApproveInput{}, asCaller(admin), "127.0.0.1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	coords = approved2.Coordinates()
	if len(coords) != 2 || coords[0] != 0 || coords[1] != 0 {
		t.Errorf("coordinates = %v, want [0 0]", coords)
	}
}

func TestEmployeeScoping(t *testing.T) {
	svc, db := newTestService(t)
	empA := seedUser(t, db, auth.RoleEmployee, "Zone A")
	empB := seedUser(t, db, auth.RoleEmployee, "Zone B")
	admin := seedUser(t, db, auth.RoleAdmin, "")

	submitTestFarm(t, svc, empA, "201/1", "F-101")
	submitTestFarm(t, svc, empA, "105/2", "F-102")
	fb := submitTestFarm(t, svc, empB, "300/1", "F-103")

	// Assign one Zone B farm directly to the Zone A employee.
	if err := db.Model(&Farm{}).Where("id = ?", fb.ID).Update("assigned_employee_id", empA.ID).Error; err != nil {
		t.Fatalf("assign: %v", err)
	}
	// Another Zone B farm stays invisible to the Zone A employee.
	submitTestFarm(t, svc, empB, "301/1", "F-104")

	views, err := svc.List(ListFilters{}, asCaller(empA))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("employee sees %d farms, want 3 (own zone + direct assignment)", len(views))
	}

	// Ordered by survey number, lexicographically.
	wantOrder := []string{"105/2", "201/1", "300/1"}
	for i, want := range wantOrder {
		if views[i].SurveyNumber != want {
			t.Errorf("position %d: survey %q, want %q", i, views[i].SurveyNumber, want)
		}
	}

	adminViews, err := svc.List(ListFilters{}, asCaller(admin))
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminViews) != 4 {
		t.Fatalf("admin sees %d farms, want 4", len(adminViews))
	}
}

func TestAssignedToFilterIsAdminOnly(t *testing.T) {
	svc, db := newTestService(t)
	empA := seedUser(t, db, auth.RoleEmployee, "Zone A")
	empB := seedUser(t, db, auth.RoleEmployee, "Zone A")
	admin := seedUser(t, db, auth.RoleAdmin, "")

	submitTestFarm(t, svc, empA, "401/1", "F-201")
	submitTestFarm(t, svc, empB, "402/1", "F-202")

	// An employee passing assigned_to still sees everything in their zone.
	views, err := svc.List(ListFilters{AssignedTo: &empB.ID}, asCaller(empA))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("employee sees %d farms, want 2 (assigned_to ignored)", len(views))
	}

	// The same filter narrows the admin listing.
	adminViews, err := svc.List(ListFilters{AssignedTo: &empB.ID}, asCaller(admin))
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminViews) != 1 {
		t.Fatalf("admin sees %d farms, want 1", len(adminViews))
	}
	if adminViews[0].SurveyNumber != "402/1" {
		t.Errorf("survey = %q, want 402/1", adminViews[0].SurveyNumber)
	}
}

func TestListWateringStatusFilter(t *testing.T) {
	svc, db := newTestService(t)
	emp := seedUser(t, db, auth.RoleEmployee, "Zone A")

	fresh := submitTestFarm(t, svc, emp, "101/1", "F-001")
	stale := submitTestFarm(t, svc, emp, "102/1", "F-002")
	submitTestFarm(t, svc, emp, "103/1", "F-003") // never watered

	now := time.Now()
	old := now.AddDate(0, 0, -30)
	if err := db.Model(&Farm{}).Where("id = ?", fresh.ID).Update("last_watered", now).Error; err != nil {
		t.Fatalf("set last watered: %v", err)
	}
	if err := db.Model(&Farm{}).Where("id = ?", stale.ID).Update("last_watered", old).Error; err != nil {
		t.Fatalf("set last watered: %v", err)
	}

	overdue, err := svc.List(ListFilters{WateringStatus: WateringOverdue}, asCaller(emp))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(overdue) != 2 {
		t.Fatalf("overdue count = %d, want 2 (stale + never watered)", len(overdue))
	}
	for _, v := range overdue {
		if v.WateringStatus != WateringOverdue {
			t.Errorf("farm %s status = %q", v.SurveyNumber, v.WateringStatus)
		}
	}

	ok, err := svc.List(ListFilters{WateringStatus: WateringOK}, asCaller(emp))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ok) != 1 || ok[0].ID != fresh.ID {
		t.Fatalf("ok farms = %d, want just the freshly watered one", len(ok))
	}
}

func TestSurveyRangeTotals(t *testing.T) {
	svc, db := newTestService(t)
	admin := seedUser(t, db, auth.RoleAdmin, "")
	seedArea(t, db, "Zone A", "ZA")

	surveys := []struct {
		survey string
		size   float64
	}{
		{"100/1", 1.0},
		{"105/1", 2.0},
		{"110/1", 3.0},
		{"200/1", 4.0},
	}
	for i, s := range surveys {
		_, err := svc.CreateFarm(context.Background(), CreateInput{
			OwnerName:    "Owner",
			FarmerPhone:  "9000000001",
			FarmerCode:   fmt.Sprintf("F-%d", i),
			SurveyNumber: s.survey,
			Area:         "Zone A",
			FarmSize:     s.size,
		}, asCaller(admin), "127.0.0.1")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	result, err := svc.SurveyRange("100/1", "110/1", "", asCaller(admin))
	if err != nil {
		t.Fatalf("survey range: %v", err)
	}
	if result.TotalFarms != 3 {
		t.Errorf("total farms = %d, want 3", result.TotalFarms)
	}
	if result.TotalArea != 6.0 {
		t.Errorf("total area = %v, want 6.0", result.TotalArea)
	}

	if _, err := svc.SurveyRange("", "110/1", "", asCaller(admin)); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields without bounds, got %v", err)
	}
}

func TestGetByIDVisibility(t *testing.T) {
	svc, db := newTestService(t)
	empA := seedUser(t, db, auth.RoleEmployee, "Zone A")
	empB := seedUser(t, db, auth.RoleEmployee, "Zone B")

	f := submitTestFarm(t, svc, empA, "101/1", "F-001")

	if _, err := svc.GetByID(f.ID, asCaller(empA)); err != nil {
		t.Fatalf("owner zone employee should see the farm: %v", err)
	}
	if _, err := svc.GetByID(f.ID, asCaller(empB)); !errors.Is(err, ErrNotVisible) {
		t.Fatalf("expected ErrNotVisible for another zone, got %v", err)
	}
	if _, err := svc.GetByID(9999, asCaller(empA)); !errors.Is(err, ErrFarmNotFound) {
		t.Fatalf("expected ErrFarmNotFound, got %v", err)
	}
}
