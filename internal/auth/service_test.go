package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sharath018/farm-irrigation-backend/config"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	cfg := &config.Config{
		JWTAccessSecret:    "test-access-secret",
		JWTRefreshSecret:   "test-refresh-secret",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
	}
	return NewService(NewRepository(db), cfg), db
}

func TestRegisterAdminAndLogin(t *testing.T) {
	svc, _ := newTestService(t)

	pair, user, err := svc.RegisterAdmin(RegisterInput{
		Name:     "Admin",
		Email:    "Admin@Example.COM",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if user.Email != "admin@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	loginPair, loginUser, err := svc.Login(LoginInput{Email: "admin@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loginUser.ID != user.ID {
		t.Error("login should return the registered user")
	}
	if loginPair.AccessToken == "" {
		t.Error("login should issue an access token")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	if _, _, err := svc.RegisterAdmin(RegisterInput{Name: "Admin", Email: "a@b.c", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(LoginInput{Email: "a@b.c", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(LoginInput{Email: "nobody@b.c", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	in := RegisterInput{Name: "Admin", Email: "a@b.c", Password: "secret123"}
	if _, _, err := svc.RegisterAdmin(in); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.RegisterAdmin(in); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestCreateEmployee(t *testing.T) {
	svc, _ := newTestService(t)

	emp, err := svc.CreateEmployee(CreateEmployeeInput{
		Name:       "Field Employee",
		Email:      "emp@b.c",
		Password:   "secret123",
		EmployeeID: "EMP-001",
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if emp.Role != RoleEmployee {
		t.Errorf("role = %q, want employee", emp.Role)
	}
	if emp.Area != "" {
		t.Errorf("area = %q, new employees start without a zone", emp.Area)
	}

	_, err = svc.CreateEmployee(CreateEmployeeInput{
		Name:       "Other",
		Email:      "other@b.c",
		Password:   "secret123",
		EmployeeID: "EMP-001",
	})
	if !errors.Is(err, ErrEmployeeIDExists) {
		t.Fatalf("expected ErrEmployeeIDExists for duplicate employee ID, got %v", err)
	}
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	svc, _ := newTestService(t)

	pair, _, err := svc.RegisterAdmin(RegisterInput{Name: "Admin", Email: "a@b.c", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	access, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" {
		t.Fatal("expected a new access token")
	}

	if _, err := svc.Refresh("not-a-token"); err == nil {
		t.Fatal("expected an error for a garbage refresh token")
	}

	// An access token must not work as a refresh token since the
	// signing secrets differ.
	if _, err := svc.Refresh(pair.AccessToken); err == nil {
		t.Fatal("expected an error when refreshing with an access token")
	}
}

func TestSeedAdminUser(t *testing.T) {
	_, db := newTestService(t)

	cfg := &config.Config{AdminEmail: "root@farm.local", AdminPassword: "bootstrap1"}
	if err := SeedAdminUser(db, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var count int64
	if err := db.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("admin count = %d, want 1", count)
	}

	// Seeding again is a no-op once an admin exists.
	if err := SeedAdminUser(db, cfg); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	if err := db.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("admin count after re-seed = %d, want 1", count)
	}
}
