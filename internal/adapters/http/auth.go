package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type GuestRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
}

type GuestResponse struct {
	Token         string `json:"token"`
	ParticipantID string `json:"participantId"`
}

// GuestLogin issues a signed identity token for a display name. Anyone may
// call it; the token carries no privileges beyond a stable identity.
func GuestLogin(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GuestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "displayName is required"})
			return
		}

		id := uuid.NewString()
		claims := IdentityClaims{
			DisplayName: req.DisplayName,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   id,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				NotBefore: jwt.NewNumericDate(time.Now()),
			},
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString([]byte(secret))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, GuestResponse{Token: tokenString, ParticipantID: id})
	}
}
