package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"mailboard/internal/kanban/domain"
	kanbandto "mailboard/internal/kanban/dto"
	"mailboard/internal/kanban/usecase"

	"github.com/gin-gonic/gin"
)

type KanbanHandler struct {
	columnUsecase usecase.ColumnUsecase
	boardUsecase  usecase.BoardUsecase
	searchUsecase usecase.SearchUsecase
}

func NewKanbanHandler(columnUsecase usecase.ColumnUsecase, boardUsecase usecase.BoardUsecase, searchUsecase usecase.SearchUsecase) *KanbanHandler {
	return &KanbanHandler{
		columnUsecase: columnUsecase,
		boardUsecase:  boardUsecase,
		searchUsecase: searchUsecase,
	}
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}

// respondError maps domain errors to HTTP status codes. Unknown errors are
// internal.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidState):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrSummaryUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrNoSuitableColumn):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// GET /kanban/columns
func (h *KanbanHandler) GetColumns(c *gin.Context) {
	columns, err := h.columnUsecase.ListColumns(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// POST /kanban/columns
func (h *KanbanHandler) CreateColumn(c *gin.Context) {
	var req kanbandto.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	column, err := h.columnUsecase.CreateColumn(userID(c), usecase.CreateColumnParams{
		Name:  req.Name,
		Color: req.Color,
		Order: req.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, column)
}

// PUT /kanban/columns/:id
func (h *KanbanHandler) UpdateColumn(c *gin.Context) {
	var req kanbandto.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	column, err := h.columnUsecase.UpdateColumn(userID(c), c.Param("id"), usecase.UpdateColumnParams{
		Name:           req.Name,
		Color:          req.Color,
		Order:          req.Order,
		GmailLabelID:   req.GmailLabelID,
		GmailLabelName: req.GmailLabelName,
		AddLabelIDs:    req.AddLabelIDs,
		RemoveLabelIDs: req.RemoveLabelIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

// DELETE /kanban/columns/:id
func (h *KanbanHandler) DeleteColumn(c *gin.Context) {
	if err := h.columnUsecase.DeleteColumn(userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "column deleted"})
}

// PUT /kanban/columns/reorder
func (h *KanbanHandler) ReorderColumns(c *gin.Context) {
	var req kanbandto.ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.columnUsecase.ReorderColumns(userID(c), req.Orders); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "columns reordered"})
}

// GET /kanban/board?max=&sync=
func (h *KanbanHandler) GetBoard(c *gin.Context) {
	max := 0
	if maxStr := c.Query("max"); maxStr != "" {
		if parsed, err := strconv.Atoi(maxStr); err == nil && parsed > 0 {
			max = parsed
		}
	}
	sync := c.Query("sync") == "true"

	board, err := h.boardUsecase.GetBoard(c.Request.Context(), userID(c), max, sync)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// POST /kanban/sync?max=
func (h *KanbanHandler) SyncBoard(c *gin.Context) {
	max := 50
	if maxStr := c.Query("max"); maxStr != "" {
		if parsed, err := strconv.Atoi(maxStr); err == nil && parsed > 0 {
			max = parsed
		}
	}

	result, err := h.boardUsecase.SyncFromProvider(c.Request.Context(), userID(c), max)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /kanban/emails
func (h *KanbanHandler) AddEmail(c *gin.Context) {
	var req kanbandto.AddEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.boardUsecase.AddEmail(c.Request.Context(), userID(c), req.EmailID, req.ColumnID, req.GenerateSummary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, status)
}

// GET /kanban/emails/:emailId
func (h *KanbanHandler) GetEmailStatus(c *gin.Context) {
	status, err := h.boardUsecase.GetEmailStatus(c.Request.Context(), userID(c), c.Param("emailId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// PUT /kanban/emails/:emailId/move
func (h *KanbanHandler) MoveEmail(c *gin.Context) {
	var req kanbandto.MoveEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.boardUsecase.MoveEmail(c.Request.Context(), userID(c), c.Param("emailId"), req.ColumnID, req.Order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// POST /kanban/emails/:emailId/snooze
func (h *KanbanHandler) SnoozeEmail(c *gin.Context) {
	var req kanbandto.SnoozeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.boardUsecase.SnoozeEmail(c.Request.Context(), userID(c), c.Param("emailId"), req.Until)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// POST /kanban/emails/:emailId/unsnooze
func (h *KanbanHandler) UnsnoozeEmail(c *gin.Context) {
	status, err := h.boardUsecase.UnsnoozeEmail(c.Request.Context(), userID(c), c.Param("emailId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// POST /kanban/emails/:emailId/summary
func (h *KanbanHandler) GenerateSummary(c *gin.Context) {
	status, err := h.boardUsecase.GenerateSummary(c.Request.Context(), userID(c), c.Param("emailId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// POST /kanban/emails/:emailId/embedding
func (h *KanbanHandler) GenerateEmbedding(c *gin.Context) {
	status, err := h.boardUsecase.GenerateEmbedding(c.Request.Context(), userID(c), c.Param("emailId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// DELETE /kanban/emails/:emailId
func (h *KanbanHandler) RemoveEmail(c *gin.Context) {
	if err := h.boardUsecase.RemoveFromBoard(c.Request.Context(), userID(c), c.Param("emailId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email removed from board"})
}

// GET /kanban/search?q=&limit=&include_body=
func (h *KanbanHandler) SearchEmails(c *gin.Context) {
	query := c.Query("q")
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}
	includeBody := c.Query("include_body") == "true"

	results, err := h.searchUsecase.Search(userID(c), query, limit, includeBody)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"total":   len(results),
		"results": results,
	})
}
