package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "middleware-secret", AccessTokenExp: exp, TokenIssuer: "theclubs"})
}

func tokenFor(t *testing.T, svc *auth.JWTService, role models.RoleType) string {
	t.Helper()
	token, _, err := svc.GenerateToken(&models.User{ID: "u-1", Email: "ada@uni.edu", Role: role})
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func protectedRouter(m *AuthMiddleware, roles ...models.RoleType) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{m.JWTAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, m.RoleRequired(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c), "role": CurrentRole(c)})
	})
	r.GET("/private", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	svc := newJWT(time.Hour)
	router := protectedRouter(NewAuthMiddleware(svc))
	valid := tokenFor(t, svc, models.RoleStudent)
	expired := tokenFor(t, newJWT(-time.Minute), models.RoleStudent)

	tests := []struct {
		name   string
		header string
		query  string
		status int
		code   dto.ErrorCode
	}{
		{name: "missing header", status: http.StatusUnauthorized, code: dto.ErrorCodeTokenNotFound},
		{name: "garbage token", header: "Bearer nope", status: http.StatusUnauthorized, code: dto.ErrorCodeInvalidToken},
		{name: "expired token", header: "Bearer " + expired, status: http.StatusUnauthorized, code: dto.ErrorCodeExpiredToken},
		{name: "bearer token", header: "Bearer " + valid, status: http.StatusOK},
		{name: "bare token", header: valid, status: http.StatusOK},
		{name: "query token", query: "?token=" + valid, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				resp := decode(t, w)
				assert.False(t, resp.Success)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.code, resp.Error.Code)
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "u-1", body["id"])
			assert.Equal(t, "student", body["role"])
		})
	}
}

func TestRoleRequired(t *testing.T) {
	svc := newJWT(time.Hour)
	router := protectedRouter(NewAuthMiddleware(svc), models.RoleAdmin)

	for role, status := range map[models.RoleType]int{
		models.RoleAdmin:    http.StatusOK,
		models.RoleClubHead: http.StatusForbidden,
		models.RoleStudent:  http.StatusForbidden,
	} {
		t.Run(string(role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, role))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, status, w.Code)
			if status == http.StatusForbidden {
				assert.Equal(t, dto.ErrorCodeForbidden, decode(t, w).Error.Code)
			}
		})
	}
}

func TestRoleRequired_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/admin", NewAuthMiddleware(newJWT(time.Hour)).RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, decode(t, w).Error.Code)
}

func TestHandleAPIError(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}
	verr := validator.New().Struct(payload{})
	require.Error(t, verr)

	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"not found with message", apperrors.NewResourceNotFoundError("Club not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Club not found"},
		{"wrapped sentinel", fmt.Errorf("loading: %w", apperrors.ErrUserNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
		{"forbidden", apperrors.NewForbiddenError("Access denied: you are not the head of this club"), http.StatusForbidden, dto.ErrorCodeForbidden, "Access denied: you are not the head of this club"},
		{"second admin", apperrors.ErrAdminAlreadyExists, http.StatusForbidden, dto.ErrorCodeAdminExists, "System already has an Admin"},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
		{"already reviewed", apperrors.NewCustomError(apperrors.ErrRequestNotPending, "Request already approved"), http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Request already approved"},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusBadRequest, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"bad request", apperrors.NewBadRequestError("Event details or prompt required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Event details or prompt required"},
		{"upstream", apperrors.NewExternalServiceError("Poster generation failed", errors.New("503")), http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Poster generation failed"},
		{"validator", verr, http.StatusBadRequest, dto.ErrorCodeValidationFailed, ""},
		{"unknown", errors.New("pq: relation missing"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Error.Message)
			}
			assert.NotContains(t, w.Body.String(), "pq: relation missing")
		})
	}
}

func TestRateLimiter_MemoryStore(t *testing.T) {
	limit, err := RateLimiter("test", "2-M", nil)
	require.NoError(t, err)

	r := gin.New()
	r.POST("/login", limit, func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_BadFormat(t *testing.T) {
	_, err := RateLimiter("test", "lots", nil)
	assert.Error(t, err)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestValidIDParam(t *testing.T) {
	r := gin.New()
	api := r.Group("/api", ValidIDParam())
	api.GET("/clubs", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.GET("/clubs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		path   string
		status int
	}{
		{"/api/clubs", http.StatusOK},
		{"/api/clubs/9d3c1f7e-5b0a-4d5e-a1c2-6f7e8d9c0b1a", http.StatusOK},
		{"/api/clubs/not-a-uuid", http.StatusNotFound},
		{"/api/clubs/chess", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusNotFound {
				assert.Equal(t, dto.ErrorCodeResourceNotFound, decode(t, w).Error.Code)
			}
		})
	}
}
