package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bondmatch/internal/bondref"
	"bondmatch/internal/handlers"
	"bondmatch/internal/logger"
	"bondmatch/internal/middleware"
	"bondmatch/internal/services"
	"bondmatch/internal/testutil"
	"bondmatch/internal/tokenstore"
	"bondmatch/internal/validator"
)

const testPipelineKey = "test-pipeline-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Notifier *captureNotifier
}

// captureNotifier keeps the last reset code sent to each email.
type captureNotifier struct {
	mu    sync.Mutex
	codes map[string]string
}

func (n *captureNotifier) SendResetCode(_ context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[email] = code
	return nil
}

func (n *captureNotifier) code(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integration%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(testutil.AllModels()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite and the built-in static bond reference data.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithLookup(t, bondref.NewDefaultStaticProvider())
}

func setupAppWithLookup(t *testing.T, lookup bondref.Lookup) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	notifier := &captureNotifier{codes: map[string]string{}}

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	resetService := services.NewPasswordResetService(userService, tokenstore.New(15*time.Minute), notifier)
	bondService := services.NewBondService(db, lookup)
	holdingService := services.NewHoldingService(db, services.IssuerMatchExact)
	contactService := services.NewContactService(db)
	historyService := services.NewSearchHistoryService(db, services.DefaultHistoryLimit)
	matchService := services.NewMatchService(db, bondService, holdingService, contactService, historyService,
		services.HoldingScopeAll)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, resetService, auditService)
	bondHandler := handlers.NewBondHandler(matchService, bondService)
	issuerHandler := handlers.NewIssuerHandler(services.NewIssuerService(db))
	historyHandler := handlers.NewSearchHistoryHandler(historyService)
	pipelineHandler := handlers.NewPipelineHandler(bondService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/request-password-reset", authHandler.RequestPasswordReset)
	auth.POST("/reset-password", authHandler.ResetPassword)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(testPipelineKey))
	pipeline.POST("/bonds/:code/refresh", pipelineHandler.RefreshBond)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	bonds := protected.Group("/bonds")
	bonds.POST("/match", bondHandler.Match)
	bonds.GET("/lookup", bondHandler.Lookup)
	bonds.GET("/:code", bondHandler.GetBond)

	protected.GET("/issuers", issuerHandler.ListIssuers)

	history := protected.Group("/search-history")
	history.GET("", historyHandler.GetHistory)
	history.POST("", historyHandler.RecordSearch)

	return &testApp{DB: db, Router: router, Notifier: notifier}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// pipelineRequest calls a pipeline route with the given API key.
func (app *testApp) pipelineRequest(method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}
