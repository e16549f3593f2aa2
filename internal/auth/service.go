package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sharath018/farm-irrigation-backend/config"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrEmployeeIDExists   = errors.New("user or employee ID already exists")
	ErrMissingFields      = errors.New("name, email and password are required")
)

type Service interface {
	RegisterAdmin(input RegisterInput) (*TokenPair, *User, error)
	Login(input LoginInput) (*TokenPair, *User, error)
	Refresh(refreshToken string) (string, error)
	GetUserByID(userID uint) (User, error)

	CreateEmployee(input CreateEmployeeInput) (*User, error)
	ListEmployees(area string, page, limit int) ([]UserResponse, int64, error)
}

type service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:          r,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
	}
}

// =============================
// Register (admin self-registration)
// =============================

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *service) RegisterAdmin(in RegisterInput) (*TokenPair, *User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         RoleAdmin,
		Status:       "active",
	}

	if err := s.repo.Create(user); err != nil {
		if isDuplicate(err, "email") {
			return nil, nil, ErrUserExists
		}
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
}

func (s *service) Login(in LoginInput) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(strings.TrimSpace(strings.ToLower(in.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Status == "inactive" {
		return nil, nil, errors.New("your account is inactive")
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *service) Refresh(refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid refresh token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return "", errors.New("user_id missing in refresh token")
	}

	user, err := s.repo.FindByID(uint(userIDFloat))
	if err != nil {
		return "", errors.New("user not found")
	}

	return s.generateAccessToken(&user)
}

func (s *service) GetUserByID(userID uint) (User, error) {
	return s.repo.FindByID(userID)
}

// =============================
// Employee management (admin)
// =============================

type CreateEmployeeInput struct {
	Name       string
	Email      string
	Password   string
	EmployeeID string
}

func (s *service) CreateEmployee(in CreateEmployeeInput) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)

	if in.Name == "" || in.Email == "" || in.Password == "" || in.EmployeeID == "" {
		return nil, errors.New("name, email, password and employee ID are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Area is assigned later by an admin via the area assignment operation.
	user := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         RoleEmployee,
		EmployeeID:   &in.EmployeeID,
		Status:       "active",
	}

	if err := s.repo.Create(user); err != nil {
		if isDuplicate(err, "email") || isDuplicate(err, "employee_id") {
			return nil, ErrEmployeeIDExists
		}
		return nil, err
	}

	return user, nil
}

func (s *service) ListEmployees(area string, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.repo.FindEmployees(area, page, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out, total, nil
}

// =============================
// Tokens
// =============================

func (s *service) issueTokens(user *User) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) generateAccessToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"area":    user.Area,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
	}
	if user.EmployeeID != nil {
		claims["employee_id"] = *user.EmployeeID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

func (s *service) generateRefreshToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.refreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.refreshSecret))
}

// SeedAdminUser creates the bootstrap admin account when none exists yet.
func SeedAdminUser(db *gorm.DB, cfg *config.Config) error {
	repo := NewRepository(db)

	count, err := repo.CountAdmins()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("⚠️ No admin account and no ADMIN_EMAIL/ADMIN_PASSWORD configured, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &User{
		Name:         "Administrator",
		Email:        strings.ToLower(cfg.AdminEmail),
		PasswordHash: string(hash),
		Role:         RoleAdmin,
		Status:       "active",
	}
	if err := repo.Create(admin); err != nil {
		return err
	}

	log.Printf("✅ Seeded admin account %s", admin.Email)
	return nil
}
