package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meetpoint/meetpoint-server/internal/auth"
	"github.com/meetpoint/meetpoint-server/internal/config"
	"github.com/meetpoint/meetpoint-server/internal/core"
	"github.com/meetpoint/meetpoint-server/internal/store"
)

// NewServer builds the HTTP server: REST endpoints for auth and rooms, and
// the WebSocket endpoint for signaling.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authService, cfg.MessageRateLimit, logger)))

	apiHandlers := NewAPIHandlers(authService, logger)
	roomHandlers := NewRoomHandlers(st, logger)

	api := router.Group("/api")
	{
		api.POST("/register", apiHandlers.Register)
		api.POST("/login", apiHandlers.Login)

		rooms := api.Group("/rooms", AuthMiddleware(authService, logger))
		{
			rooms.POST("", roomHandlers.CreateRoom)
			rooms.POST("/join", roomHandlers.JoinRoom)
			rooms.GET("/:roomId", roomHandlers.GetRoom)
		}
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
