// Package http is the gin adapter: identity handling, room info, the audio
// upload/stream endpoints, and the websocket upgrade route.
package http

import (
	"fmt"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IdentityClaims is the per-connection identity token. There is no account
// system behind it; the token only pins a stable participant id and display
// name to a connection.
type IdentityClaims struct {
	DisplayName string `json:"displayName"`
	jwt.RegisteredClaims
}

// IdentityMiddleware resolves the participant identity for a request. A
// valid bearer token (header or ?token=) wins; otherwise a per-browser guest
// id is minted and kept in the cookie session so reconnects keep their
// identity.
func IdentityMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			claims, err := parseIdentity(tokenString, secret)
			if err == nil {
				c.Set("participant_id", claims.Subject)
				c.Set("display_name", claims.DisplayName)
				c.Next()
				return
			}
		}

		session := sessions.Default(c)
		id, _ := session.Get("participant_id").(string)
		if id == "" {
			id = uuid.NewString()
			session.Set("participant_id", id)
			_ = session.Save()
		}
		c.Set("participant_id", id)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		parts := strings.Split(auth, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	// Browsers cannot set headers on websocket upgrades.
	return c.Query("token")
}

func parseIdentity(tokenString, secret string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
