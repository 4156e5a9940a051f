package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/auth"
	autherrors "github.com/VISWAJIT-PS/fieldtrack-pro/internal/auth/errors"
)

type fakeAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error)
	refreshFn  func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error)
	getMeFn    func(ctx context.Context, userID string) (*auth.AuthResponse, error)
	registerFn func(ctx context.Context, session auth.Session, req auth.RegisterRequest) (auth.AuthResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
	return f.loginFn(ctx, email, password)
}
func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
	return f.refreshFn(ctx, refreshToken)
}
func (f *fakeAuthService) GetMe(ctx context.Context, userID string) (*auth.AuthResponse, error) {
	return f.getMeFn(ctx, userID)
}
func (f *fakeAuthService) Register(ctx context.Context, session auth.Session, req auth.RegisterRequest) (auth.AuthResponse, error) {
	return f.registerFn(ctx, session, req)
}

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestHandler_Login(t *testing.T) {
	svc := &fakeAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
			if email == "field@example.com" && password == "password123" {
				return "access-token", "refresh-token", auth.AuthResponse{
					ID:    "user-1",
					Email: email,
					Role:  "employee",
				}, nil
			}
			return "", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials
		},
	}
	handler := auth.NewHandler(svc)
	router := setupAuthRouter()
	router.POST("/login", handler.Login)

	t.Run("web client gets cookies", func(t *testing.T) {
		body, _ := json.Marshal(auth.LoginRequest{Email: "field@example.com", Password: "password123"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "web")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		assert.Len(t, cookies, 2)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, "access-token", cookies[0].Value)

		var res map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		data := res["data"].(map[string]interface{})
		assert.Equal(t, "field@example.com", data["user"].(map[string]interface{})["email"])
		assert.Equal(t, "access-token", data["access_token"])
	})

	t.Run("mobile client gets no cookies", func(t *testing.T) {
		body, _ := json.Marshal(auth.LoginRequest{Email: "field@example.com", Password: "password123"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "mobile")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("invalid credentials", func(t *testing.T) {
		body, _ := json.Marshal(auth.LoginRequest{Email: "field@example.com", Password: "nope"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"x"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Me(t *testing.T) {
	svc := &fakeAuthService{
		getMeFn: func(ctx context.Context, userID string) (*auth.AuthResponse, error) {
			return &auth.AuthResponse{ID: userID, Email: "field@example.com"}, nil
		},
	}
	handler := auth.NewHandler(svc)
	router := setupAuthRouter()
	router.GET("/me", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.Me(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "user-1", res["data"].(map[string]interface{})["id"])
}

func TestHandler_RefreshToken_FromBody(t *testing.T) {
	svc := &fakeAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
			if refreshToken != "refresh-token" {
				return "", "", auth.AuthResponse{}, autherrors.ErrInvalidRefreshToken
			}
			return "new-access", "new-refresh", auth.AuthResponse{ID: "user-1"}, nil
		},
	}
	handler := auth.NewHandler(svc)
	router := setupAuthRouter()
	router.POST("/refresh", handler.RefreshToken)

	body := bytes.NewBufferString(`{"refresh_token":"refresh-token"}`)
	req := httptest.NewRequest(http.MethodPost, "/refresh", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "new-access", res["data"].(map[string]interface{})["access_token"])
}
