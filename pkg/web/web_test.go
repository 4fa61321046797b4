package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func Test_RespondJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondJSON(rr, discardLogger, http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rr.Body.String())

	rr = httptest.NewRecorder()
	RespondJSON(rr, discardLogger, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = httptest.NewRecorder()
	RespondJSON(rr, discardLogger, http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func Test_RespondValidationErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondValidationErrors(rr, discardLogger, http.StatusBadRequest, map[string]string{"name": "Product name is required"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"validation_errors":{"name":"Product name is required"}}`, rr.Body.String())
}

func Test_ParseID(t *testing.T) {
	id := uuid.New()
	testCases := []struct {
		name         string
		pathValue    string
		expectedOK   bool
		expectedCode int
		expectedBody string
	}{
		{name: "valid", pathValue: id.String(), expectedOK: true, expectedCode: http.StatusOK},
		{name: "invalid", pathValue: "123-invalid-id", expectedCode: http.StatusBadRequest, expectedBody: `{"error":"Invalid ID: 123-invalid-id"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("id", tc.pathValue)
			rr := httptest.NewRecorder()

			got, ok := ParseID(rr, req, discardLogger)

			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedOK {
				assert.Equal(t, id, got)
				return
			}
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_ParseOptionalIntGte(t *testing.T) {
	testCases := []struct {
		name       string
		query      string
		expected   int
		expectedOK bool
	}{
		{name: "missing uses default", query: "", expected: 1, expectedOK: true},
		{name: "valid", query: "page=3", expected: 3, expectedOK: true},
		{name: "below minimum", query: "page=0", expectedOK: false},
		{name: "not a number", query: "page=two", expectedOK: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
			rr := httptest.NewRecorder()

			got, ok := ParseOptionalIntGte(req, rr, discardLogger, "page", 1, 1)

			assert.Equal(t, tc.expectedOK, ok)
			if tc.expectedOK {
				assert.Equal(t, tc.expected, got)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func Test_ParseFormIntGte(t *testing.T) {
	form := url.Values{"page": {"2"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, ok := ParseFormIntGte(req, httptest.NewRecorder(), discardLogger, "page", 1)
	assert.True(t, ok)
	assert.Equal(t, 2, got)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	_, ok = ParseFormIntGte(req, rr, discardLogger, "page", 1)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func Test_RequestIDInjector(t *testing.T) {
	var seen string
	handler := middleware.RequestID(RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = GetRequestID(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "req-42", seen)

	seen = ""
	RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = GetRequestID(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err, "a uuid is generated without chi request id")

	_, found := GetRequestID(context.Background())
	assert.False(t, found)
}

func Test_Recoverer(t *testing.T) {
	handler := Recoverer(discardLogger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()

	require.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func Test_StructuredLogger(t *testing.T) {
	var b strings.Builder
	logger := slog.New(slog.NewJSONHandler(&b, nil))
	handler := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Contains(t, b.String(), `"msg":"Request completed"`)
	assert.Contains(t, b.String(), `"status":418`)
	assert.Contains(t, b.String(), `"path":"/healthz"`)
}
