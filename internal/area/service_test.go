package area

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sharath018/farm-irrigation-backend/internal/auditlog"
	"github.com/sharath018/farm-irrigation-backend/internal/auth"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&auth.User{}, &Area{}, &auditlog.AuditLog{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	authRepo := auth.NewRepository(db)
	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	return NewService(NewRepository(db), authRepo, auditSvc), db
}

func seedEmployee(t *testing.T, db *gorm.DB) auth.User {
	t.Helper()
	u := auth.User{
		Name:         "Field Employee",
		Email:        fmt.Sprintf("emp-%d@test.local", time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         auth.RoleEmployee,
		Status:       "active",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return u
}

func TestCreateArea(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.CreateArea(CreateAreaInput{
		Name:     "Zone A",
		Code:     "ZA",
		District: "Palakkad",
		State:    "Kerala",
		Boundary: [][]float64{{76.0, 10.0}, {76.1, 10.0}, {76.1, 10.1}},
	}, 1, "127.0.0.1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("area should be persisted")
	}
	if a.Status != "active" {
		t.Errorf("status = %q, want active", a.Status)
	}

	if _, err := svc.CreateArea(CreateAreaInput{Name: "Zone A", Code: "ZX", District: "D", State: "S"}, 1, "127.0.0.1"); !errors.Is(err, ErrAreaExists) {
		t.Fatalf("expected ErrAreaExists for duplicate name, got %v", err)
	}
	if _, err := svc.CreateArea(CreateAreaInput{Name: "Zone X", Code: "ZA", District: "D", State: "S"}, 1, "127.0.0.1"); !errors.Is(err, ErrAreaExists) {
		t.Fatalf("expected ErrAreaExists for duplicate code, got %v", err)
	}
	if _, err := svc.CreateArea(CreateAreaInput{Name: "Zone Y"}, 1, "127.0.0.1"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAssignEmployeeDualWrite(t *testing.T) {
	svc, db := newTestService(t)
	emp := seedEmployee(t, db)

	a, err := svc.CreateArea(CreateAreaInput{Name: "Zone A", Code: "ZA", District: "D", State: "S"}, 1, "127.0.0.1")
	if err != nil {
		t.Fatalf("create area: %v", err)
	}

	if err := svc.AssignEmployee(a.ID, emp.ID, 1, "127.0.0.1"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// The user's zone label follows the assignment.
	var u auth.User
	if err := db.First(&u, emp.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if u.Area != "Zone A" {
		t.Errorf("user area = %q, want Zone A", u.Area)
	}

	// And the area's member set contains the employee.
	reloaded, err := svc.Repo.FindByID(a.ID)
	if err != nil {
		t.Fatalf("reload area: %v", err)
	}
	if len(reloaded.AssignedEmployees) != 1 || reloaded.AssignedEmployees[0].ID != emp.ID {
		t.Fatalf("assigned employees = %d, want the one employee", len(reloaded.AssignedEmployees))
	}

	// Assigning again is idempotent.
	if err := svc.AssignEmployee(a.ID, emp.ID, 1, "127.0.0.1"); err != nil {
		t.Fatalf("re-assign: %v", err)
	}
	reloaded, err = svc.Repo.FindByID(a.ID)
	if err != nil {
		t.Fatalf("reload area: %v", err)
	}
	if len(reloaded.AssignedEmployees) != 1 {
		t.Fatalf("assigned employees after re-assign = %d, want 1", len(reloaded.AssignedEmployees))
	}
}

func TestAssignEmployeeValidation(t *testing.T) {
	svc, db := newTestService(t)
	emp := seedEmployee(t, db)

	if err := svc.AssignEmployee(9999, emp.ID, 1, "127.0.0.1"); !errors.Is(err, ErrAreaNotFound) {
		t.Fatalf("expected ErrAreaNotFound, got %v", err)
	}

	a, err := svc.CreateArea(CreateAreaInput{Name: "Zone A", Code: "ZA", District: "D", State: "S"}, 1, "127.0.0.1")
	if err != nil {
		t.Fatalf("create area: %v", err)
	}
	if err := svc.AssignEmployee(a.ID, 9999, 1, "127.0.0.1"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	// Admins cannot be assigned as area members.
	admin := auth.User{Name: "Admin", Email: "admin@test.local", PasswordHash: "x", Role: auth.RoleAdmin, Status: "active"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := svc.AssignEmployee(a.ID, admin.ID, 1, "127.0.0.1"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound for admin, got %v", err)
	}
}

func TestGetAreaStats(t *testing.T) {
	svc, db := newTestService(t)

	a, err := svc.CreateArea(CreateAreaInput{Name: "Zone A", Code: "ZA", District: "D", State: "S"}, 1, "127.0.0.1")
	if err != nil {
		t.Fatalf("create area: %v", err)
	}

	// The live recompute scans the farms table directly.
	if err := db.Exec(
		"CREATE TABLE IF NOT EXISTS farms (id INTEGER PRIMARY KEY, area TEXT, farm_size REAL)",
	).Error; err != nil {
		t.Fatalf("create farms table: %v", err)
	}
	if err := db.Exec(
		"INSERT INTO farms (area, farm_size) VALUES (?, ?), (?, ?)",
		"Zone A", 2.5, "Zone A", 1.5,
	).Error; err != nil {
		t.Fatalf("seed farms: %v", err)
	}

	stats, err := svc.GetAreaStats(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.LiveFarmCount != 2 {
		t.Errorf("live farm count = %d, want 2", stats.LiveFarmCount)
	}
	if stats.LiveAcreageSum != 4.0 {
		t.Errorf("live acreage = %v, want 4.0", stats.LiveAcreageSum)
	}

	if _, err := svc.GetAreaStats(context.Background(), 9999); !errors.Is(err, ErrAreaNotFound) {
		t.Fatalf("expected ErrAreaNotFound, got %v", err)
	}
}
