package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/importer"
	adminsvc "storefront/internal/service/admin"

	"github.com/gin-gonic/gin"
)

type stubAdmin struct {
	token     string
	account   *domain.Admin
	loginErr  error
	claims    *adminsvc.Claims
	verifyErr error
}

func (s *stubAdmin) Login(_ context.Context, _, _ string) (string, *domain.Admin, error) {
	return s.token, s.account, s.loginErr
}

func (s *stubAdmin) Verify(_ string) (*adminsvc.Claims, error) {
	return s.claims, s.verifyErr
}

type stubImporter struct {
	result *importer.Result
	err    error
	read   []byte
}

func (s *stubImporter) Import(_ context.Context, r io.Reader) (*importer.Result, error) {
	s.read, _ = io.ReadAll(r)
	return s.result, s.err
}

func TestLoginHandler_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubAdmin{token: "tok-123", account: &domain.Admin{ID: "a1", Email: "ops@example.com"}}
	router := gin.New()
	router.POST("/admin/login", loginHandler(svc))

	body := `{"email": "ops@example.com", "password": "super-secret"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "tok-123") {
		t.Fatalf("expected token in body, got %s", rec.Body.String())
	}
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubAdmin{loginErr: adminsvc.ErrInvalidCredentials}
	router := gin.New()
	router.POST("/admin/login", loginHandler(svc))

	body := `{"email": "ops@example.com", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func protectedRouter(svc adminService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	authed := router.Group("/admin")
	authed.Use(authMiddleware(svc))
	authed.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"adminId": c.GetString("adminID")})
	})
	return router
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router := protectedRouter(&stubAdmin{})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := protectedRouter(&stubAdmin{verifyErr: adminsvc.ErrInvalidToken})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := protectedRouter(&stubAdmin{claims: &adminsvc.Claims{AdminID: "a1"}})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "a1") {
		t.Fatalf("expected admin id in body, got %s", rec.Body.String())
	}
}

func multipartCSV(t *testing.T, field, filename, contents string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(contents)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestUploadCSVHandler_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	imp := &stubImporter{result: &importer.Result{Created: 2, Updated: 1}}
	router := gin.New()
	router.POST("/admin/upload-csv", uploadCSVHandler(imp, testLogger()))

	body, contentType := multipartCSV(t, "csvFile", "products.csv", "name,price\nWidget,1.00\n")
	req := httptest.NewRequest(http.MethodPost, "/admin/upload-csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || !strings.Contains(resp.Message, "Created: 2") {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
	if !strings.Contains(string(imp.read), "Widget") {
		t.Fatalf("importer did not receive file contents")
	}
}

func TestUploadCSVHandler_RejectsNonCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	imp := &stubImporter{}
	router := gin.New()
	router.POST("/admin/upload-csv", uploadCSVHandler(imp, testLogger()))

	body, contentType := multipartCSV(t, "csvFile", "products.txt", "whatever")
	req := httptest.NewRequest(http.MethodPost, "/admin/upload-csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadCSVHandler_MissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	imp := &stubImporter{}
	router := gin.New()
	router.POST("/admin/upload-csv", uploadCSVHandler(imp, testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/admin/upload-csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListCustomersHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubCheckout{customers: []domain.Customer{{ID: "c1", Email: "jane@example.com"}}}
	router := gin.New()
	router.GET("/admin/customers", listCustomersHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/admin/customers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "jane@example.com") {
		t.Fatalf("expected customer in body, got %s", rec.Body.String())
	}
}

func TestListCustomersHandler_Empty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubCheckout{}
	router := gin.New()
	router.GET("/admin/customers", listCustomersHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/admin/customers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"customers":[]`) {
		t.Fatalf("expected empty customers array, got %s", rec.Body.String())
	}
}
