package api

import (
	"github.com/gin-gonic/gin"

	authDelivery "mailboard/internal/auth/delivery"
	authUsecase "mailboard/internal/auth/usecase"
	kanbanDelivery "mailboard/internal/kanban/delivery"
	"mailboard/internal/kanban/usecase"
	"mailboard/pkg/config"
)

type Handler struct {
	kanbanHandler      *kanbanDelivery.KanbanHandler
	credentialsHandler *authDelivery.CredentialsHandler
	config             *config.Config
}

func NewHandler(columnUc usecase.ColumnUsecase, boardUc usecase.BoardUsecase, searchUc usecase.SearchUsecase, credentialUc authUsecase.CredentialUsecase, cfg *config.Config) *Handler {
	return &Handler{
		kanbanHandler:      kanbanDelivery.NewKanbanHandler(columnUc, boardUc, searchUc),
		credentialsHandler: authDelivery.NewCredentialsHandler(credentialUc),
		config:             cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.kanbanHandler, h.credentialsHandler, h.config)

	return r.Run(addr)
}
