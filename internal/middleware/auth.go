// internal/middleware/auth.go
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storyweave/storyweave-backend/internal/i18n"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

var errNoToken = errors.New("missing bearer token")

func claimsFromRequest(c *gin.Context) (*utils.JWTClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errNoToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("malformed authorization header")
	}

	return utils.ValidateJWT(parts[1])
}

// setActor exposes the authenticated identity to handlers. The wallet address
// is the actor every ledger operation downstream is attributed to.
func setActor(c *gin.Context, claims *utils.JWTClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("wallet_address", claims.WalletAddress)
	c.Set("user_type", claims.UserType)
}

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		claims, err := claimsFromRequest(c)
		if err != nil {
			key := i18n.KeyAuthInvalidToken
			if errors.Is(err, errNoToken) {
				key = i18n.KeyAuthRequired
			}
			utils.UnauthorizedResponse(c, i18n.T(lang, key))
			c.Abort()
			return
		}

		setActor(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the actor when a valid token is present but lets
// anonymous reads through.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromRequest(c); err == nil {
			setActor(c, claims)
		}
		c.Next()
	}
}
