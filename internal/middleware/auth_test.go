package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "auth-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// captureIdentity records what the middleware stored in the context
func captureIdentity(email, username *string) gin.HandlerFunc {
	return func(c *gin.Context) {
		*email = c.GetString(ContextUserEmail)
		*username = c.GetString(ContextUsername)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		authHeader   string
		wantStatus   int
		wantEmail    string
		wantUsername string
	}{
		{
			name: "성공: 유효한 토큰",
			authHeader: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"email":    "user@example.com",
				"username": "사용자",
				"exp":      time.Now().Add(time.Hour).Unix(),
			}),
			wantStatus:   http.StatusOK,
			wantEmail:    "user@example.com",
			wantUsername: "사용자",
		},
		{
			name: "성공: email 클레임 없이 sub 클레임 사용",
			authHeader: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"sub": "oauth-user@example.com",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			wantStatus: http.StatusOK,
			wantEmail:  "oauth-user@example.com",
		},
		{
			name:       "실패: Authorization 헤더 없음",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "실패: Bearer 형식이 아님",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "실패: 잘못된 시크릿으로 서명된 토큰",
			authHeader: "Bearer " + signToken(t, "wrong-secret", jwt.MapClaims{
				"email": "user@example.com",
				"exp":   time.Now().Add(time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "실패: 만료된 토큰",
			authHeader: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"email": "user@example.com",
				"exp":   time.Now().Add(-time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "실패: 이메일 클레임 없음",
			authHeader: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail, gotUsername string

			r := gin.New()
			r.GET("/protected", RequireAuth(testSecret), captureIdentity(&gotEmail, &gotUsername))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, "Response body: %s", w.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantEmail, gotEmail)
				assert.Equal(t, tt.wantUsername, gotUsername)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		authHeader string
		wantEmail  string
	}{
		{
			name: "성공: 유효한 토큰이면 뷰어 식별",
			authHeader: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"email": "viewer@example.com",
				"exp":   time.Now().Add(time.Hour).Unix(),
			}),
			wantEmail: "viewer@example.com",
		},
		{
			name:       "성공: 토큰 없으면 익명으로 통과",
			authHeader: "",
			wantEmail:  "",
		},
		{
			name:       "성공: 깨진 토큰도 익명으로 통과",
			authHeader: "Bearer not-a-real-token",
			wantEmail:  "",
		},
		{
			name: "성공: 잘못된 시크릿 토큰은 익명 처리",
			authHeader: "Bearer " + signToken(t, "wrong-secret", jwt.MapClaims{
				"email": "viewer@example.com",
				"exp":   time.Now().Add(time.Hour).Unix(),
			}),
			wantEmail: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail, gotUsername string

			r := gin.New()
			r.GET("/open", OptionalAuth(testSecret), captureIdentity(&gotEmail, &gotUsername))

			req := httptest.NewRequest(http.MethodGet, "/open", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			// Reads never get rejected by the optional middleware
			assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
			assert.Equal(t, tt.wantEmail, gotEmail)
		})
	}
}
