package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"snapdocs/internal/config"
)

const (
	ContextKeySubject  = "subject"
	ContextKeyAuthMode = "auth_mode"
)

// Auth returns middleware that accepts either a bearer JWT (HS256, signed
// with the configured secret) or an X-API-Key header matched against the
// configured bcrypt hash. Both checks are active only when their secret is
// configured; callers should skip installing the middleware entirely when
// cfg.Enabled() is false.
func Auth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APIKeyHash != "" {
			if key := c.GetHeader("X-API-Key"); key != "" {
				if bcrypt.CompareHashAndPassword([]byte(cfg.APIKeyHash), []byte(key)) == nil {
					c.Set(ContextKeyAuthMode, "api_key")
					c.Next()
					return
				}
				abortUnauthorized(c, "invalid API key")
				return
			}
		}

		if cfg.JWTSecret != "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				abortUnauthorized(c, "missing or invalid authorization header")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			subject, err := validateToken(token, cfg)
			if err != nil {
				abortUnauthorized(c, "invalid or expired token")
				return
			}
			c.Set(ContextKeySubject, subject)
			c.Set(ContextKeyAuthMode, "jwt")
			c.Next()
			return
		}

		abortUnauthorized(c, "missing credentials")
	}
}

func validateToken(tokenString string, cfg *config.AuthConfig) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	return claims.Subject, nil
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
	})
}
