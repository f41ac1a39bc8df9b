package middleware

import (
	"net/http"
	"strings"

	"github.com/Priyanshusingh0818/GORUS/internal/utils"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// ErrorBody is the JSON shape of every error response. The storefront reads
// "message"; "error" carries the same text.
func ErrorBody(msg string) gin.H {
	return gin.H{"error": msg, "message": msg}
}

// TokenVerifier turns a bearer token into identity claims.
type TokenVerifier interface {
	Verify(token string) (*utils.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// claims on the context. Identity comes from the token alone.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody("Missing token"))
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody("Invalid or expired token"))
			return
		}

		c.Set(claimsKey, claims)
		c.Set("userID", claims.UserID)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody("Missing token"))
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody("Admin access required"))
			return
		}
		c.Next()
	}
}

// Claims returns the identity stored by RequireAuth.
func Claims(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
