package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mailboard/internal/auth/usecase"
)

type CredentialsHandler struct {
	credentials usecase.CredentialUsecase
}

func NewCredentialsHandler(credentials usecase.CredentialUsecase) *CredentialsHandler {
	return &CredentialsHandler{credentials: credentials}
}

type gmailCredentialsRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
}

type imapCredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PUT /auth/credentials/gmail
func (h *CredentialsHandler) SaveGmailCredentials(c *gin.Context) {
	var req gmailCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(ContextUserIDKey)
	if err := h.credentials.SaveGmailTokens(c.Request.Context(), userID, req.AccessToken, req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "gmail credentials saved"})
}

// PUT /auth/credentials/imap
func (h *CredentialsHandler) SaveIMAPCredentials(c *gin.Context) {
	var req imapCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(ContextUserIDKey)
	if err := h.credentials.SaveIMAPCredentials(c.Request.Context(), userID, req.Username, req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "imap credentials saved"})
}

// GET /auth/credentials/status
func (h *CredentialsHandler) ConnectionStatus(c *gin.Context) {
	userID := c.GetString(ContextUserIDKey)
	gmail, imap, err := h.credentials.ConnectionStatus(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gmail": gmail, "imap": imap})
}
