package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/config"
	httpmiddleware "taskboard/internal/delivery/http/middleware"
	"taskboard/internal/delivery/http/router"
	"taskboard/internal/delivery/http/router/handler"
	"taskboard/internal/delivery/http/validator"
	"taskboard/internal/infra/auth"
	"taskboard/internal/infra/persistence/model"
	"taskboard/internal/infra/persistence/postgres"
	"taskboard/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires the whole stack by hand against an in-memory SQLite
// database: real repositories, real bcrypt hashing (minimum cost), real JWT
// issuance, and the production middleware chain.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserModel{}, &model.TaskModel{}))

	cfg := &config.Config{}
	cfg.SecretKey.Access = "integration-test-secret"
	cfg.Auth = &config.AuthConfig{
		BcryptCost:     bcrypt.MinCost,
		AccessTokenTTL: time.Minute,
	}

	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := postgres.NewUserRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	txManager := postgres.NewTransactionManager(db)

	hasher := auth.NewBcryptHasher(cfg)
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	userUC := impl.NewUserService(impl.UserServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenSvc,
		Logger:       testLogger,
	})
	taskUC := impl.NewTaskService(impl.TaskServiceParams{
		TxManager: txManager,
		TaskRepo:  taskRepo,
		Logger:    testLogger,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Validator = validator.New()
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(testLogger).HandleHTTPError

	r := router.NewRouter(router.RouterParams{
		UserHandler:    handler.NewUserHandler(userUC, testLogger),
		TaskHandler:    handler.NewTaskHandler(taskUC, testLogger),
		AuthMiddleware: httpmiddleware.NewAuthMiddleware(tokenSvc, userRepo, testLogger),
	})
	r.RegisterRoutes(e)

	return e
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

type accountInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionInfo struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        accountInfo `json:"user"`
}

type taskInfo struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func registerAndLogin(t *testing.T, e *echo.Echo, email, password string) sessionInfo {
	t.Helper()

	rec, _ := doJSON(t, e, http.MethodPost, "/api/users/register", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doJSON(t, e, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var session sessionInfo
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.AccessToken)

	return session
}

func TestIntegration_RegisterLoginProfile(t *testing.T) {
	e := newTestServer(t)

	session := registerAndLogin(t, e, "alice@example.com", "password123")
	assert.Equal(t, "bearer", session.TokenType)
	assert.Equal(t, int64(60), session.ExpiresIn)

	rec, env := doJSON(t, e, http.MethodGet, "/api/users/me", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var account accountInfo
	require.NoError(t, json.Unmarshal(env.Data, &account))
	assert.Equal(t, session.User.ID, account.ID)
	assert.Equal(t, "alice@example.com", account.Email)

	// The password hash must never appear in any response.
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestIntegration_RegisterDuplicateEmail(t *testing.T) {
	e := newTestServer(t)

	registerAndLogin(t, e, "alice@example.com", "password123")

	rec, env := doJSON(t, e, http.MethodPost, "/api/users/register", "", map[string]string{
		"name":     "Imposter",
		"email":    "alice@example.com",
		"password": "password456",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_EMAIL", env.Error.Code)
}

func TestIntegration_RegisterInvalidInput(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "bad email", body: map[string]string{"email": "not-an-email", "password": "password123"}},
		{name: "short password", body: map[string]string{"email": "a@example.com", "password": "short"}},
		{name: "missing password", body: map[string]string{"email": "a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, e, http.MethodPost, "/api/users/register", "", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
		})
	}
}

func TestIntegration_LoginFailures(t *testing.T) {
	e := newTestServer(t)

	registerAndLogin(t, e, "alice@example.com", "password123")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "alice@example.com", password: "wrong-password"},
		{name: "unknown email", email: "nobody@example.com", password: "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, e, http.MethodPost, "/api/users/login", "", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			require.NotNil(t, env.Error)

			// Same code and message for both failure modes.
			assert.Equal(t, "AUTHENTICATION_FAILED", env.Error.Code)
			assert.Equal(t, "Incorrect email or password", env.Error.Message)
		})
	}
}

func TestIntegration_UnauthenticatedAccess(t *testing.T) {
	e := newTestServer(t)

	tokens := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "garbage"},
		{name: "well-formed forged token", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiIxIn0.invalid"},
	}

	for _, tt := range tokens {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doJSON(t, e, http.MethodGet, "/api/users/me", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

			rec, _ = doJSON(t, e, http.MethodGet, "/api/1/tasks", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestIntegration_TaskLifecycle(t *testing.T) {
	e := newTestServer(t)

	session := registerAndLogin(t, e, "alice@example.com", "password123")
	base := fmt.Sprintf("/api/%d/tasks", session.User.ID)

	// Create
	rec, env := doJSON(t, e, http.MethodPost, base, session.AccessToken, map[string]string{
		"title":       "Buy milk",
		"description": "Two liters",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created taskInfo
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.False(t, created.Completed)
	assert.Equal(t, session.User.ID, created.OwnerID)

	taskPath := fmt.Sprintf("%s/%d", base, created.ID)

	// Read back
	rec, env = doJSON(t, e, http.MethodGet, taskPath, session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// List
	rec, env = doJSON(t, e, http.MethodGet, base, session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []taskInfo
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)

	// Update
	rec, env = doJSON(t, e, http.MethodPut, taskPath, session.AccessToken, map[string]any{
		"title":       "Buy oat milk",
		"description": "One liter",
		"completed":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated taskInfo
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.True(t, updated.Completed)

	// Create with an explicit completed flag
	rec, env = doJSON(t, e, http.MethodPost, base, session.AccessToken, map[string]any{
		"title":     "Already done",
		"completed": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var preCompleted taskInfo
	require.NoError(t, json.Unmarshal(env.Data, &preCompleted))
	assert.True(t, preCompleted.Completed)

	// Delete
	rec, _ = doJSON(t, e, http.MethodDelete, taskPath, session.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = doJSON(t, e, http.MethodGet, taskPath, session.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "TASK_NOT_FOUND", env.Error.Code)
}

func TestIntegration_ToggleTwiceRestoresState(t *testing.T) {
	e := newTestServer(t)

	session := registerAndLogin(t, e, "alice@example.com", "password123")
	base := fmt.Sprintf("/api/%d/tasks", session.User.ID)

	rec, env := doJSON(t, e, http.MethodPost, base, session.AccessToken, map[string]string{
		"title": "Toggle me",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created taskInfo
	require.NoError(t, json.Unmarshal(env.Data, &created))

	togglePath := fmt.Sprintf("%s/%d/complete", base, created.ID)

	rec, env = doJSON(t, e, http.MethodPatch, togglePath, session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var once taskInfo
	require.NoError(t, json.Unmarshal(env.Data, &once))
	assert.True(t, once.Completed)

	rec, env = doJSON(t, e, http.MethodPatch, togglePath, session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var twice taskInfo
	require.NoError(t, json.Unmarshal(env.Data, &twice))
	assert.False(t, twice.Completed)
}

func TestIntegration_CrossUserAccessForbidden(t *testing.T) {
	e := newTestServer(t)

	alice := registerAndLogin(t, e, "alice@example.com", "password123")
	bob := registerAndLogin(t, e, "bob@example.com", "password456")

	aliceBase := fmt.Sprintf("/api/%d/tasks", alice.User.ID)

	rec, env := doJSON(t, e, http.MethodPost, aliceBase, alice.AccessToken, map[string]string{
		"title": "Alice's secret task",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created taskInfo
	require.NoError(t, json.Unmarshal(env.Data, &created))

	taskPath := fmt.Sprintf("%s/%d", aliceBase, created.ID)

	// Bob addressing Alice's board is rejected on every operation.
	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{method: http.MethodGet, path: aliceBase},
		{method: http.MethodPost, path: aliceBase, body: map[string]string{"title": "intruder"}},
		{method: http.MethodGet, path: taskPath},
		{method: http.MethodPut, path: taskPath, body: map[string]string{"title": "hijacked"}},
		{method: http.MethodDelete, path: taskPath},
		{method: http.MethodPatch, path: taskPath + "/complete"},
	} {
		rec, env := doJSON(t, e, tc.method, tc.path, bob.AccessToken, tc.body)
		require.Equalf(t, http.StatusForbidden, rec.Code, "%s %s", tc.method, tc.path)
		require.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	}

	// Alice's task is untouched.
	rec, env = doJSON(t, e, http.MethodGet, taskPath, alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var kept taskInfo
	require.NoError(t, json.Unmarshal(env.Data, &kept))
	assert.Equal(t, "Alice's secret task", kept.Title)

	// Bob's own board: a foreign task ID simply does not exist there.
	bobTaskPath := fmt.Sprintf("/api/%d/tasks/%d", bob.User.ID, created.ID)
	rec, env = doJSON(t, e, http.MethodGet, bobTaskPath, bob.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TASK_NOT_FOUND", env.Error.Code)
}

func TestIntegration_TaskValidation(t *testing.T) {
	e := newTestServer(t)

	session := registerAndLogin(t, e, "alice@example.com", "password123")
	base := fmt.Sprintf("/api/%d/tasks", session.User.ID)

	rec, env := doJSON(t, e, http.MethodPost, base, session.AccessToken, map[string]string{
		"description": "no title",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)

	rec, _ = doJSON(t, e, http.MethodGet, "/api/not-a-number/tasks", session.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIntegration_HealthCheck(t *testing.T) {
	e := newTestServer(t)

	rec, _ := doJSON(t, e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
