package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"pagepulse/internal/handler"
	"pagepulse/internal/repository"
	"pagepulse/internal/service"
)

func newAccountRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)
	store := repository.NewFileUserStore(filepath.Join(t.TempDir(), "users.json"), log)
	authService := service.NewAuthService(store, []byte("test-secret"), time.Hour, zap.NewNop())
	authHandler := handler.NewAuthHandler(authService, zap.NewNop())

	router := gin.New()
	router.POST("/account/login", authHandler.Login)
	router.POST("/account/register", authHandler.Register)
	router.POST("/account/add_page", authHandler.AddPage)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	resp := map[string]any{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response to %s is not JSON: %v", path, err)
	}
	return w, resp
}

func TestAccountRoundTrip(t *testing.T) {
	router := newAccountRouter(t)

	_, resp := doJSON(t, router, "/account/register", `{"username":"alice","password":"pw1"}`)
	if resp["status"] != "OK" {
		t.Fatalf("Expected status OK on register, got %v", resp["status"])
	}

	// Duplicate username must report a coarse error.
	w, resp := doJSON(t, router, "/account/register", `{"username":"alice","password":"pw2"}`)
	if resp["status"] != "error" {
		t.Errorf("Expected status error for duplicate register, got %v", resp["status"])
	}
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate register, got %d", w.Code)
	}

	_, resp = doJSON(t, router, "/account/login", `{"username":"alice","password":"pw1"}`)
	if resp["status"] != "OK" {
		t.Fatalf("Expected status OK on login, got %v", resp["status"])
	}
	if ids, ok := resp["page_ids"].([]any); !ok || len(ids) != 0 {
		t.Errorf("Expected empty page_ids, got %v", resp["page_ids"])
	}
	if names, ok := resp["page_names"].([]any); !ok || len(names) != 0 {
		t.Errorf("Expected empty page_names, got %v", resp["page_names"])
	}
	if token, ok := resp["token"].(string); !ok || token == "" {
		t.Errorf("Expected a session token, got %v", resp["token"])
	}

	_, resp = doJSON(t, router, "/account/add_page", `{"username":"alice","page_id":"42","page_name":"My Page"}`)
	if resp["status"] != "OK" {
		t.Fatalf("Expected status OK on add_page, got %v", resp["status"])
	}

	_, resp = doJSON(t, router, "/account/login", `{"username":"alice","password":"pw1"}`)
	ids, _ := resp["page_ids"].([]any)
	names, _ := resp["page_names"].([]any)
	if len(ids) != 1 || ids[0] != "42" {
		t.Errorf("Expected page_ids [42], got %v", resp["page_ids"])
	}
	if len(names) != 1 || names[0] != "My Page" {
		t.Errorf("Expected page_names [My Page], got %v", resp["page_names"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router := newAccountRouter(t)

	doJSON(t, router, "/account/register", `{"username":"alice","password":"pw1"}`)

	w, resp := doJSON(t, router, "/account/login", `{"username":"alice","password":"nope"}`)
	if resp["status"] != "error" {
		t.Errorf("Expected status error, got %v", resp["status"])
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}
