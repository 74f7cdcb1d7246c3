package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/benefit_accounts_app/internal/dto"
	"github.com/SscSPs/benefit_accounts_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    "benefits",
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
}

func newAuthRouter(secret, issuer string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(secret, issuer), func(c *gin.Context) {
		subject, _ := middleware.GetSubjectFromContext(c)
		c.String(http.StatusOK, subject)
	})
	return r
}

func serve(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"
	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()), http.StatusOK, "user-1"},
		{"lowercase scheme", "bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()), http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", jwt.SigningMethodHS256, validClaims()), http.StatusUnauthorized, ""},
		{"wrong algorithm", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS512, validClaims()), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, expired), http.StatusUnauthorized, "expired"},
		{"wrong issuer", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, wrongIssuer), http.StatusUnauthorized, ""},
		{"no subject", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, noSubject), http.StatusUnauthorized, ""},
	}

	r := newAuthRouter(testSecret, "benefits")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				var res dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
				assert.Equal(t, http.StatusUnauthorized, res.Status)
				assert.Equal(t, "/protected", res.Path)
				assert.NotEmpty(t, res.Message)
				assert.False(t, res.Timestamp.IsZero())
			}
		})
	}
}

func TestAuthMiddleware_EmptySecretDisablesAuth(t *testing.T) {
	w := serve(newAuthRouter("", ""), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
