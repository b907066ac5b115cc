package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextUserEmail = "userEmail"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, httperr.Unauthorized("missing_authorization_header", "authorization header is required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, httperr.Unauthorized("invalid_authorization_header", "authorization header must be Bearer <token>"))
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Abort(c, httperr.Unauthorized("invalid_token", "token is invalid or expired"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Abort(c, httperr.Unauthorized("invalid_token_claims", "token claims are invalid"))
			return
		}

		userID, ok := claims["sub"].(float64)
		role, _ := claims["role"].(string)
		email, _ := claims["email"].(string)
		if !ok || userID <= 0 || role == "" {
			httperr.Abort(c, httperr.Unauthorized("invalid_token_payload", "token payload is incomplete"))
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserRole, role)
		c.Set(ContextUserEmail, email)

		c.Next()
	}
}

// RequireRoles lets through only the given roles. It must run after
// AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Abort(c, httperr.Forbidden("forbidden", "your role cannot perform this action"))
	}
}

func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Actor is the audit identity of the current request.
func Actor(c *gin.Context) audit.Actor {
	a := audit.Actor{RequestID: c.GetString(ContextRequestID)}
	if id, ok := UserID(c); ok {
		a.UserID = &id
	}
	return a
}
