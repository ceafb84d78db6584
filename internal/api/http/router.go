package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterConfig настройки HTTP-роутера.
type RouterConfig struct {
	MaxBodyBytes int64
	Logger       zerolog.Logger
}

// NewRouter регистрирует маршруты API. Разрешены любые origin.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestLogger(cfg.Logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
			ExposeHeaders:   []string{"Content-Disposition", "Content-Length", "X-Request-ID"},
			MaxAge:          12 * time.Hour,
		}),
	)
	if cfg.MaxBodyBytes > 0 {
		router.Use(LimitBodySize(cfg.MaxBodyBytes))
	}

	router.GET("/", h.Root)
	router.GET("/read_sensor", h.ReadSensor)
	router.POST("/diagnosis", h.Diagnosis)
	router.POST("/diagnose/image", h.DiagnoseImage)

	return router
}
