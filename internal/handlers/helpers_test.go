package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/config"
	"github.com/codekart/codekart/internal/upload"
	"github.com/codekart/codekart/internal/validation"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Auth     *AuthHandler
	Products *ProductHandler
	Settings *SettingsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	e := echo.New()
	e.Validator = validation.New()

	return &testEnv{
		T:  t,
		E:  e,
		DB: db,
		Auth: &AuthHandler{
			DB:            db,
			JWTSecret:     []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
		Products: &ProductHandler{DB: db},
		Settings: &SettingsHandler{DB: db, Uploads: upload.NewStore(t.TempDir())},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) doFormRequest(method, path string, form url.Values) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func sampleProduct() map[string]any {
	return map[string]any{
		"title":       "Go REST API Starter",
		"description": "A production-grade REST API starter",
		"price":       499.0,
		"category":    "web-development",
		"tech_stack":  []string{"go", "postgres"},
		"thumbnail":   "https://img.example/thumb.png",
	}
}
