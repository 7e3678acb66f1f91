package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/middleware"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "rfq-test-jwt-secret"

// Test users
const (
	BuyerID    = "buyer-001"
	SupplierID = "supplier-001"
	AdminID    = "admin-001"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens a file-backed SQLite database in the test's temp dir and
// migrates all negotiation tables. A single connection serialises transactions
// the way row locks do on postgres.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "rfq.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(entity.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": userID + "@test.com",
		"roles": roles,
		"iss":   "rfq",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// BuyerToken returns a token for the default buyer
func BuyerToken() string {
	return GenerateTestToken(BuyerID, "Test Buyer", []string{middleware.RoleBuyer})
}

// SupplierToken returns a token for the default supplier
func SupplierToken() string {
	return GenerateTestToken(SupplierID, "Test Supplier", []string{middleware.RoleSupplier})
}

// AdminToken returns a token for the default admin
func AdminToken() string {
	return GenerateTestToken(AdminID, "Test Admin", []string{middleware.RoleAdmin})
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedInquiry creates an inquiry from BuyerID to SupplierID
func SeedInquiry(t *testing.T, db *gorm.DB, status string) *entity.Inquiry {
	t.Helper()
	inquiry := &entity.Inquiry{
		ID:         uuid.New().String()[:32],
		BuyerID:    BuyerID,
		ProductID:  "product-001",
		SupplierID: SupplierID,
		Quantity:   1000,
		Message:    "please quote",
		Status:     status,
	}
	if err := db.Create(inquiry).Error; err != nil {
		t.Fatalf("Failed to seed inquiry: %v", err)
	}
	return inquiry
}

// SeedQuotation creates a quotation on the inquiry
func SeedQuotation(t *testing.T, db *gorm.DB, inquiryID, price string, moq int, validUntil time.Time, status string) *entity.Quotation {
	t.Helper()
	p := decimal.RequireFromString(price)
	q := &entity.Quotation{
		ID:           uuid.New().String()[:32],
		InquiryID:    inquiryID,
		SupplierID:   SupplierID,
		PricePerUnit: p,
		MOQ:          moq,
		TotalPrice:   entity.ComputeTotal(p, moq),
		LeadTime:     "30 days",
		PaymentTerms: "T/T 30%",
		ValidUntil:   validUntil.UTC(),
		Status:       status,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("Failed to seed quotation: %v", err)
	}
	return q
}
