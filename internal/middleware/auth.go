package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"community-feed-api/internal/response"
)

// Context keys set by the auth middleware
const (
	ContextUserEmail = "user_email"
	ContextUsername  = "username"
)

// RequireAuth returns a middleware that validates the gateway JWT and
// stores the caller's email and username claims in the request context.
// Requests without a valid token are rejected.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		email, username, err := parseIdentityClaims(parts[1], jwtSecret)
		if err != nil {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, err.Error())
			c.Abort()
			return
		}

		c.Set(ContextUserEmail, email)
		c.Set(ContextUsername, username)
		c.Next()
	}
}

// OptionalAuth returns a middleware that extracts the caller's identity
// when a valid token is present and proceeds anonymously otherwise. Read
// endpoints use it to annotate responses with the viewer's vote state.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		email, username, err := parseIdentityClaims(parts[1], jwtSecret)
		if err != nil {
			// A broken token on a read is treated as anonymous, not rejected
			c.Next()
			return
		}

		c.Set(ContextUserEmail, email)
		c.Set(ContextUsername, username)
		c.Next()
	}
}

// parseIdentityClaims validates the token signature and pulls the email
// and username claims out of it
func parseIdentityClaims(tokenString, jwtSecret string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errInvalidToken
	}

	// Try "email" first (our format), then "sub" (OAuth format)
	var email string
	if e, ok := claims["email"].(string); ok && e != "" {
		email = e
	} else if sub, ok := claims["sub"].(string); ok && sub != "" {
		email = sub
	} else {
		return "", "", errMissingEmailClaim
	}

	username, _ := claims["username"].(string)
	return email, username, nil
}

var (
	errInvalidToken      = jwtError("invalid or expired token")
	errMissingEmailClaim = jwtError("email claim not found in token")
)

type jwtError string

func (e jwtError) Error() string { return string(e) }
