// Package e2e provides end-to-end tests for the Product Hub application.
// The suite runs the real application handler, with its middleware, REST API and dashboard
// session API, in an `httptest.Server`. It uses `testify/suite` for structure and lifecycle
// management (`SetupSuite`, `TearDownSuite`, `SetupTest`).
//
// Key features of the test suite:
//   - Every test starts from a fresh, empty in-memory store.
//   - Table-driven tests cover the product endpoints (GET, POST, PUT, PATCH, DELETE).
//   - Dashboard sessions are driven over HTTP and observe mutations made through the product API.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/producthub/internal/app"
	"github.com/abgdnv/producthub/internal/config"
	"github.com/abgdnv/producthub/internal/dashboard"
	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "PRODUCTHUB_SKIP_E2E_TESTS"

// productURL is the base URL of the product API.
const productURL = "/api/v1/products"

// sessionURL is the base URL of the dashboard session API.
const sessionURL = "/api/v1/dashboard/sessions"

// ProductHubE2ESuite is a test suite for end-to-end tests of Product Hub.
type ProductHubE2ESuite struct {
	suite.Suite                  // Embedding testify's suite for structured testing
	server      *httptest.Server // HTTP server for the application, rebuilt for every test
	httpClient  *http.Client     // HTTP client for making requests to the server
	appCfg      *config.Config   // Application configuration for tests
	logger      *slog.Logger     // Logger for the test suite
	ctx         context.Context  // Context for the test suite, used for cancellation and timeouts
}

// testConfig creates a configuration for the application with an empty store.
func testConfig() *config.Config {
	var cfg config.Config

	cfg.HTTPServer.Port = 8080
	cfg.HTTPServer.MaxHeaderBytes = 1 << 20 // 1 MB
	cfg.HTTPServer.Timeout.Read = time.Minute
	cfg.HTTPServer.Timeout.Write = time.Minute
	cfg.HTTPServer.Timeout.Idle = time.Minute
	cfg.HTTPServer.Timeout.ReadHeader = time.Minute
	cfg.Shutdown.Timeout = 5 * time.Second
	cfg.Dashboard.SearchDebounce = time.Hour

	return &cfg
}

// SetupSuite initializes the logger and the validated application configuration.
func (s *ProductHubE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s.appCfg = testConfig()
	require.NoError(s.T(), s.appCfg.Validate(), "Invalid E2E configuration")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *ProductHubE2ESuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

// SetupTest starts a new application, so every test sees an empty store.
func (s *ProductHubE2ESuite) SetupTest() {
	if s.server != nil {
		s.server.Close()
	}
	deps := app.SetupDependencies(s.appCfg, nil, s.logger)
	appHandler, err := app.SetupHttpHandler(deps)
	require.NoError(s.T(), err, "Failed to setup application for E2E")

	s.server = httptest.NewServer(appHandler)
	s.httpClient = s.server.Client()
}

func TestProductHubE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(ProductHubE2ESuite))
}

// --------------------------------------------------------------------------
// ---------- Payload structures and Helper methods for E2E tests -----------
// --------------------------------------------------------------------------

// productPayload is the body of create and full update requests.
type productPayload struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Stock       int32  `json:"stock"`
	Description string `json:"description,omitempty"`
}

type validationErrors struct {
	ValidationErrors map[string]string `json:"validation_errors"`
}

func (s *ProductHubE2ESuite) createProduct(payload productPayload) (service.ProductDto, int) {
	s.T().Helper()
	var product service.ProductDto
	status := s.doJSON(http.MethodPost, productURL, payload, &product, http.StatusCreated)
	return product, status
}

func (s *ProductHubE2ESuite) findByID(id string) (service.ProductDto, int) {
	s.T().Helper()
	var product service.ProductDto
	status := s.doJSON(http.MethodGet, productURL+"/"+id, nil, &product, http.StatusOK)
	return product, status
}

func (s *ProductHubE2ESuite) search(query string, page int) (service.PageDto, int) {
	s.T().Helper()
	var result service.PageDto
	status := s.doJSON(http.MethodGet, fmt.Sprintf("%s?q=%s&page=%d", productURL, query, page), nil, &result, http.StatusOK)
	return result, status
}

func (s *ProductHubE2ESuite) sessionAction(method, path string, payload any) (dashboard.View, int) {
	s.T().Helper()
	var view dashboard.View
	status := s.doJSON(method, path, payload, &view, http.StatusOK, http.StatusCreated)
	return view, status
}

// doJSON sends payload as JSON and decodes the response into out when the status is one of okCodes.
func (s *ProductHubE2ESuite) doJSON(method, path string, payload, out any, okCodes ...int) int {
	s.T().Helper()
	bodyBytes, statusCode := s.doRequest(method, s.server.URL+path, payload)
	for _, code := range okCodes {
		if statusCode == code && out != nil {
			require.NoError(s.T(), json.Unmarshal(bodyBytes, out), "Failed to decode response: %s", bodyBytes)
			break
		}
	}
	return statusCode
}

// doRequest is a helper method to make an HTTP request to the application.
// Returns the response body as a byte slice and the HTTP status code.
func (s *ProductHubE2ESuite) doRequest(method, url string, payload any) ([]byte, int) {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		require.NoError(s.T(), err)
		body = bytes.NewBuffer(payloadBytes)
	}

	req, err := http.NewRequestWithContext(s.ctx, method, url, body)
	require.NoError(s.T(), err, "Failed to create HTTP request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err, "HTTP request failed")
	defer func() {
		err := resp.Body.Close()
		require.NoError(s.T(), err, "Failed to close response body")
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "Failed to read response body")

	return bodyBytes, resp.StatusCode
}

func lamp(i int) productPayload {
	return productPayload{
		Name:     fmt.Sprintf("Desk Lamp %02d", i),
		Price:    "19.99",
		Category: "Home & Garden",
		Stock:    int32(10 * i),
	}
}

// --------------------------------------------------------------
// ---------------------- E2E test methods ----------------------
// --------------------------------------------------------------

func (s *ProductHubE2ESuite) TestFindByID_NotFound_E2E() {
	_, statusCode := s.findByID(uuid.New().String())
	s.Require().Equal(http.StatusNotFound, statusCode)

	_, statusCode = s.findByID("not-a-uuid")
	s.Require().Equal(http.StatusBadRequest, statusCode)
}

func (s *ProductHubE2ESuite) TestCreate_E2E() {
	testCases := []struct {
		name         string
		payload      productPayload
		expectedCode int
		invalid      []string
	}{
		{
			name:         "Create - valid",
			payload:      productPayload{Name: "Cordless Drill", Price: "89.99", Category: "Tools", Stock: 5},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Create - empty name and zero price",
			payload:      productPayload{Name: "", Price: "0", Category: "Tools", Stock: 5},
			expectedCode: http.StatusBadRequest,
			invalid:      []string{"name", "price"},
		},
		{
			name:         "Create - negative stock and unknown category",
			payload:      productPayload{Name: "Drill", Price: "1", Category: "Garden", Stock: -1},
			expectedCode: http.StatusBadRequest,
			invalid:      []string{"category", "stock"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			bodyBytes, statusCode := s.doRequest(http.MethodPost, s.server.URL+productURL, tc.payload)
			s.Require().Equal(tc.expectedCode, statusCode, string(bodyBytes))

			if tc.expectedCode == http.StatusCreated {
				var created service.ProductDto
				s.Require().NoError(json.Unmarshal(bodyBytes, &created))
				found, code := s.findByID(created.ID)
				s.Require().Equal(http.StatusOK, code)
				s.Equal(tc.payload.Name, found.Name)
				s.Equal("89.99", found.Price.StringFixed(2))
				s.Equal(service.StockCritical, found.StockStatus)
				return
			}
			var vErr validationErrors
			s.Require().NoError(json.Unmarshal(bodyBytes, &vErr))
			for _, field := range tc.invalid {
				s.Contains(vErr.ValidationErrors, field)
			}
			result, _ := s.search("", 1)
			s.Equal(0, result.TotalItems, "a rejected product must not be stored")
		})
	}
}

func (s *ProductHubE2ESuite) TestSearchAndPagination_E2E() {
	for i := 1; i <= 8; i++ {
		_, code := s.createProduct(lamp(i))
		s.Require().Equal(http.StatusCreated, code)
	}
	_, code := s.createProduct(productPayload{Name: "Yoga Mat", Price: "39", Category: "Sports", Stock: 64})
	s.Require().Equal(http.StatusCreated, code)

	result, code := s.search("", 1)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(9, result.TotalItems)
	s.Equal(2, result.TotalPages)
	s.Len(result.Items, 6)
	s.Equal("Yoga Mat", result.Items[0].Name, "newest product comes first")

	result, _ = s.search("", 5)
	s.Equal(2, result.Page, "page is clamped to the last page")
	s.Len(result.Items, 3)

	result, _ = s.search("LAMP", 1)
	s.Equal(8, result.TotalItems)

	result, _ = s.search("mat", 1)
	s.Require().Len(result.Items, 1)
	s.Equal("Yoga Mat", result.Items[0].Name)
}

func (s *ProductHubE2ESuite) TestUpdatePatchStockDelete_E2E() {
	created, code := s.createProduct(lamp(1))
	s.Require().Equal(http.StatusCreated, code)
	path := productURL + "/" + created.ID

	var updated service.ProductDto
	code = s.doJSON(http.MethodPut, path, productPayload{Name: "Floor Lamp", Price: "49.50", Category: "Home & Garden", Stock: 60}, &updated, http.StatusOK)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("Floor Lamp", updated.Name)
	s.Equal(service.StockAmple, updated.StockStatus)
	s.True(created.CreatedAt.Equal(updated.CreatedAt))

	code = s.doJSON(http.MethodPatch, path, map[string]any{"description": "Warm white"}, &updated, http.StatusOK)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("Floor Lamp", updated.Name)
	s.Equal("Warm white", updated.Description)

	code = s.doJSON(http.MethodPut, path+"/stock", map[string]any{"stock": 3}, &updated, http.StatusOK)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(int32(3), updated.Stock)

	var stats service.StatsDto
	code = s.doJSON(http.MethodGet, productURL+"/stats", nil, &stats, http.StatusOK)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(1, stats.TotalProducts)
	s.Equal(1, stats.LowStock)
	s.Equal("148.50", stats.InventoryValue.StringFixed(2))

	_, code = s.doRequest(http.MethodDelete, s.server.URL+path, nil)
	s.Require().Equal(http.StatusNoContent, code)
	_, code = s.doRequest(http.MethodDelete, s.server.URL+path, nil)
	s.Require().Equal(http.StatusNotFound, code)
}

func (s *ProductHubE2ESuite) TestDashboardSession_E2E() {
	for i := 1; i <= 7; i++ {
		_, code := s.createProduct(lamp(i))
		s.Require().Equal(http.StatusCreated, code)
	}

	view, code := s.sessionAction(http.MethodPost, sessionURL, nil)
	s.Require().Equal(http.StatusCreated, code)
	base := sessionURL + "/" + view.SessionID
	s.True(view.ShowPagination)

	view, _ = s.sessionAction(http.MethodPost, base+"/page/next", nil)
	s.Require().Equal(2, view.Page)
	s.Require().Len(view.Items, 1)
	last := view.Items[0]

	// deleting the only product of page 2 through the product API moves the session back to page 1
	_, code = s.doRequest(http.MethodDelete, s.server.URL+productURL+"/"+last.ID, nil)
	s.Require().Equal(http.StatusNoContent, code)
	view, _ = s.sessionAction(http.MethodGet, base, nil)
	s.Equal(1, view.Page)
	s.False(view.ShowPagination)

	view, _ = s.sessionAction(http.MethodPost, base+"/form/create", nil)
	s.Equal(dashboard.FormCreating, view.Form.State)
	view, code = s.sessionAction(http.MethodPost, base+"/form/submit", service.FormInput{
		Name: "Reading Lamp", Price: "25", Category: "Home & Garden", Stock: "12",
	})
	s.Require().Equal(http.StatusOK, code)
	s.Equal("Reading Lamp", view.Items[0].Name)
	s.Require().Len(view.Toasts, 1)
	s.Equal(`"Reading Lamp" has been added`, view.Toasts[0].Message)

	result, _ := s.search("reading", 1)
	s.Equal(1, result.TotalItems, "dashboard mutations are visible through the product API")

	_, code = s.doRequest(http.MethodDelete, s.server.URL+base, nil)
	s.Require().Equal(http.StatusNoContent, code)
	_, code = s.sessionAction(http.MethodGet, base, nil)
	s.Equal(http.StatusNotFound, code)
}
