package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/adapters/signal"
	"github.com/pnowak/auxparty/internal/app"
	"github.com/pnowak/auxparty/internal/config"
	"github.com/pnowak/auxparty/internal/domain"
	"github.com/pnowak/auxparty/internal/library"
)

func SetupRouter(ctx context.Context, cfg *config.Config, router *app.Router, store *library.Store) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	sessionStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("auxparty", sessionStore))
	r.Use(IdentityMiddleware(cfg.Secret))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.POST("/auth/guest", GuestLogin(cfg.Secret, cfg.TokenTTL))

	api.GET("/rooms/:code", RoomInfo(router))
	api.POST("/rooms/:code/tracks", UploadTrack(router, store))
	api.GET("/rooms/:code/tracks/:trackId/audio", StreamTrack(router, store))

	ctl := signal.NewController(router, cfg.ReadLimit, cfg.PingPeriod)
	api.GET("/ws", func(c *gin.Context) {
		ctl.HandleWS(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}

// RoomInfo serves the public metadata snapshot for a room code.
func RoomInfo(router *app.Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := router.RoomInfo(domain.RoomCode(c.Param("code")))
		if err != nil {
			if errors.Is(err, domain.ErrRoomNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}
