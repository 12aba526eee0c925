package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"papertrade/conf"
	"papertrade/internal/middleware"
	"papertrade/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf.AppConfig.AppName = "papertrade-test"
	conf.AppConfig.Auth.Password = "open-sesame"
	conf.AppConfig.Auth.JwtSecret = "test-secret"
	conf.AppConfig.Auth.JwtTtl = 3600

	g := gin.New()
	g.POST("/api/v1/auth/login", NewHandler().Login())
	g.GET("/protected", middleware.AuthToken(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return g
}

func doLogin(t *testing.T, g *gin.Engine, password string) (*httptest.ResponseRecorder, response.ApiResponse) {
	t.Helper()
	body := `{"password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	var res response.ApiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return w, res
}

func TestLogin(t *testing.T) {
	g := newTestEngine(t)

	w, res := doLogin(t, g, "open-sesame")
	if w.Code != http.StatusOK || res.Code != 0 {
		t.Fatalf("login: http=%d code=%d msg=%s", w.Code, res.Code, res.Message)
	}
	data, _ := res.Data.(map[string]interface{})
	token, _ := data["access_token"].(string)
	if token == "" {
		t.Fatalf("no token in response: %+v", res.Data)
	}

	// 签发的token可以通过鉴权中间件
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w2 := httptest.NewRecorder()
	g.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("protected with token: %d", w2.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	g := newTestEngine(t)

	w, res := doLogin(t, g, "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: http=%d", w.Code)
	}
	if res.Code == 0 {
		t.Fatalf("wrong password accepted: %+v", res)
	}
}

func TestAuthToken_Missing(t *testing.T) {
	g := newTestEngine(t)

	// 无token
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", w.Code)
	}

	// 伪造token
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	w = httptest.NewRecorder()
	g.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bogus token: %d", w.Code)
	}
}
