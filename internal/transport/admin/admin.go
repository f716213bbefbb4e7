package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Status is the slice of server state the admin surface exposes.
type Status interface {
	// LoggedIn lists the currently authenticated user ids.
	LoggedIn() []string
	// Connections reports the number of open connections.
	Connections() int
}

// NewServer builds the operator-facing HTTP server. It is meant for a
// loopback or otherwise trusted address and is disabled entirely when
// no admin address is configured.
func NewServer(addr string, status Status, logger *zerolog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)
	router.GET("/users", usersHandler(status))

	logger.Info().Str("addr", addr).Msg("admin server configured")

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func usersHandler(status Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"users":       status.LoggedIn(),
			"connections": status.Connections(),
		})
	}
}
