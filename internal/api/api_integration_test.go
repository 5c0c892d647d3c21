// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "portfolio-tracker/internal"
	"portfolio-tracker/internal/pricing"
)

// testApp is the global application instance for testing.
// It stays nil unless INTEGRATION_DB=1, in which case the tests below talk to a real Postgres.
var testApp *app.Application

// testServer is the httptest server.
var testServer *httptest.Server

// TestMain is the special entry point for Go tests, executed once before all tests.
func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_DB") != "1" {
		os.Exit(m.Run())
	}

	// 1. Set up environment variables (ensure DB_NAME points to the test database).
	setupEnvVars()

	// 2. Initialize the application.
	testApp = app.NewApplication()
	if err := testApp.Initialize(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize test application: %v\n", err)
		os.Exit(1)
	}

	// 3. Start an httptest server to test the HTTP handling layer.
	testServer = httptest.NewServer(testApp.HTTPHandler)

	// 4. Run all tests.
	code := m.Run()

	// 5. Shut down application resources after tests.
	testServer.Close()
	if err := testApp.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown test application: %v\n", err)
		os.Exit(1)
	}

	os.Exit(code)
}

// setupEnvVars sets database defaults for any variable the environment leaves empty.
func setupEnvVars() {
	defaults := map[string]string{
		"DB_HOST":      "localhost",
		"DB_PORT":      "5432",
		"DB_USER":      "user",
		"DB_PASSWORD":  "password",
		"DB_NAME":      "portfoliodb_test",
		"DB_SSLMODE":   "disable",
		"AUTO_MIGRATE": "true",
		"SECRET_KEY":   "integration-test-secret",
	}
	for key, value := range defaults {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testApp == nil {
		t.Skip("set INTEGRATION_DB=1 to run against Postgres")
	}
}

// clearDatabase truncates all relevant tables to ensure a clean database state for each test case.
func clearDatabase(t *testing.T) {
	_, err := testApp.DB.Exec("TRUNCATE TABLE holdings, users CASCADE;")
	require.NoError(t, err, "Failed to truncate tables")
}

// makeRequest sends an HTTP request to the test server and decodes a JSON object body, if any.
func makeRequest(t *testing.T, method, path, token string, body io.Reader) (*http.Response, map[string]interface{}, string) {
	req, err := http.NewRequest(method, testServer.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if strings.HasPrefix(string(raw), "{") {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded, string(raw)
}

func registerUser(t *testing.T, username string) string {
	payload := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"secret123"}`, username, username)
	resp, body, raw := makeRequest(t, http.MethodPost, "/api/auth/register", "", strings.NewReader(payload))
	require.Equal(t, http.StatusCreated, resp.StatusCode, raw)
	return body["access_token"].(string)
}

func TestAuthIntegration(t *testing.T) {
	requireDB(t)
	clearDatabase(t)

	token := registerUser(t, "alice")

	t.Run("DuplicateUsername", func(t *testing.T) {
		resp, body, _ := makeRequest(t, http.MethodPost, "/api/auth/register", "",
			strings.NewReader(`{"username":"alice","email":"other@example.com","password":"secret123"}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Username already registered", body["error"])
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		resp, body, _ := makeRequest(t, http.MethodPost, "/api/auth/register", "",
			strings.NewReader(`{"username":"alice2","email":"alice@example.com","password":"secret123"}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Email already registered", body["error"])
	})

	t.Run("Login", func(t *testing.T) {
		resp, body, _ := makeRequest(t, http.MethodPost, "/api/auth/login", "",
			strings.NewReader(`{"username":"alice","password":"secret123"}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["access_token"])

		resp, _, _ = makeRequest(t, http.MethodPost, "/api/auth/login", "",
			strings.NewReader(`{"username":"alice","password":"wrong"}`))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Me", func(t *testing.T) {
		resp, body, _ := makeRequest(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice", body["username"])
	})
}

func TestPortfolioIntegration(t *testing.T) {
	requireDB(t)
	clearDatabase(t)

	token := registerUser(t, "investor")
	otherToken := registerUser(t, "bystander")

	resp, created, raw := makeRequest(t, http.MethodPost, "/api/portfolio/stocks", token,
		strings.NewReader(`{"stock_name":"AAPL","quantity":"10","buy_price":"150"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode, raw)
	stockID := created["id"].(string)

	ref := decimal.NewFromInt(150)
	band := ref.Mul(pricing.MaxVariation)
	got, err := decimal.NewFromString(created["current_price"].(string))
	require.NoError(t, err)
	assert.True(t, got.Sub(ref).Abs().LessThanOrEqual(band.Add(decimal.RequireFromString("0.005"))), "current price %s", got)

	t.Run("InvalidHolding", func(t *testing.T) {
		resp, _, _ := makeRequest(t, http.MethodPost, "/api/portfolio/stocks", token,
			strings.NewReader(`{"stock_name":"AAPL","quantity":"0","buy_price":"150"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("OtherUserCannotSee", func(t *testing.T) {
		resp, body, _ := makeRequest(t, http.MethodGet, "/api/portfolio/stocks/"+stockID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Stock not found", body["error"])

		resp, _, _ = makeRequest(t, http.MethodDelete, "/api/portfolio/stocks/"+stockID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		resp, body, raw := makeRequest(t, http.MethodPut, "/api/portfolio/stocks/"+stockID, token,
			strings.NewReader(`{"quantity":"20"}`))
		require.Equal(t, http.StatusOK, resp.StatusCode, raw)
		assert.Equal(t, "AAPL", body["stock_name"])
		assert.Equal(t, "20", body["quantity"])
		assert.Equal(t, "150", body["buy_price"])
		assert.Equal(t, "3000", body["total_invested"])
	})

	t.Run("ListAndSummary", func(t *testing.T) {
		resp, _, raw := makeRequest(t, http.MethodPost, "/api/portfolio/stocks", token,
			strings.NewReader(`{"stock_name":"MSFT","quantity":"5","buy_price":"300"}`))
		require.Equal(t, http.StatusCreated, resp.StatusCode, raw)

		resp, _, raw = makeRequest(t, http.MethodGet, "/api/portfolio/stocks", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &list))
		require.Len(t, list, 2)
		assert.Equal(t, "AAPL", list[0]["stock_name"])
		assert.Equal(t, "MSFT", list[1]["stock_name"])

		resp, summary, _ := makeRequest(t, http.MethodGet, "/api/portfolio/summary", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 2, summary["total_stocks"])
		assert.Equal(t, "4500", summary["total_invested"])

		resp, summary, _ = makeRequest(t, http.MethodGet, "/api/portfolio/summary", otherToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 0, summary["total_stocks"])
	})

	t.Run("Delete", func(t *testing.T) {
		resp, body, _ := makeRequest(t, http.MethodDelete, "/api/portfolio/stocks/"+stockID, token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Stock deleted successfully", body["message"])

		resp, _, _ = makeRequest(t, http.MethodGet, "/api/portfolio/stocks/"+stockID, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
