package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authDelivery "mailboard/internal/auth/delivery"
	kanbanDelivery "mailboard/internal/kanban/delivery"
	"mailboard/pkg/config"
)

func SetupRoutes(r *gin.Engine, kanbanHandler *kanbanDelivery.KanbanHandler, credentialsHandler *authDelivery.CredentialsHandler, cfg *config.Config) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Provider credential routes (protected)
		auth := api.Group("/auth")
		auth.Use(authDelivery.AuthMiddleware(cfg.JWTSecret))
		{
			auth.PUT("/credentials/gmail", credentialsHandler.SaveGmailCredentials)
			auth.PUT("/credentials/imap", credentialsHandler.SaveIMAPCredentials)
			auth.GET("/credentials/status", credentialsHandler.ConnectionStatus)
		}

		// Kanban routes (protected)
		kanban := api.Group("/kanban")
		kanban.Use(authDelivery.AuthMiddleware(cfg.JWTSecret))
		{
			kanban.GET("/columns", kanbanHandler.GetColumns)
			kanban.POST("/columns", kanbanHandler.CreateColumn)
			kanban.PUT("/columns/reorder", kanbanHandler.ReorderColumns)
			kanban.PUT("/columns/:id", kanbanHandler.UpdateColumn)
			kanban.DELETE("/columns/:id", kanbanHandler.DeleteColumn)

			kanban.GET("/board", kanbanHandler.GetBoard)
			kanban.POST("/sync", kanbanHandler.SyncBoard)

			kanban.POST("/emails", kanbanHandler.AddEmail)
			kanban.GET("/emails/:emailId", kanbanHandler.GetEmailStatus)
			kanban.PUT("/emails/:emailId/move", kanbanHandler.MoveEmail)
			kanban.POST("/emails/:emailId/snooze", kanbanHandler.SnoozeEmail)
			kanban.POST("/emails/:emailId/unsnooze", kanbanHandler.UnsnoozeEmail)
			kanban.POST("/emails/:emailId/summary", kanbanHandler.GenerateSummary)
			kanban.POST("/emails/:emailId/embedding", kanbanHandler.GenerateEmbedding)
			kanban.DELETE("/emails/:emailId", kanbanHandler.RemoveEmail)

			kanban.GET("/search", kanbanHandler.SearchEmails)
		}
	}
}
