package handler

import (
	"log"
	"net/http"

	"officina/internal/model"
	"officina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boards    *service.BoardService
	snapshots *service.SnapshotService
}

func NewBoardHandler(boards *service.BoardService, snapshots *service.SnapshotService) *BoardHandler {
	return &BoardHandler{
		boards:    boards,
		snapshots: snapshots,
	}
}

type CreateBoardRequest struct {
	Title                string                `json:"title" binding:"required"`
	Identifier           string                `json:"identifier" binding:"required"`
	CategoryID           *string               `json:"category_id"`
	IsProductionBoard    bool                  `json:"is_production_board"`
	IsOfferBoard         bool                  `json:"is_offer_board"`
	TargetWorkBoardID    *string               `json:"target_work_board_id"`
	TargetInvoiceBoardID *string               `json:"target_invoice_board_id"`
	Columns              []CreateColumnRequest `json:"columns"`
}

type CreateColumnRequest struct {
	Title            string `json:"title" binding:"required"`
	Identifier       string `json:"identifier" binding:"required"`
	ColumnType       string `json:"column_type"`
	IsCreationColumn bool   `json:"is_creation_column"`
}

type BoardResponse struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Identifier        string  `json:"identifier"`
	CategoryID        *string `json:"category_id,omitempty"`
	IsProductionBoard bool    `json:"is_production_board"`
	IsOfferBoard      bool    `json:"is_offer_board"`
}

type ColumnResponse struct {
	ID               string `json:"id"`
	BoardID          string `json:"board_id"`
	Title            string `json:"title"`
	Identifier       string `json:"identifier"`
	Position         int    `json:"position"`
	ColumnType       string `json:"column_type"`
	IsCreationColumn bool   `json:"is_creation_column"`
}

type DuplicateBoardRequest struct {
	BoardID string `json:"board_id" binding:"required"`
}

type DeleteBoardRequest struct {
	BoardID string `json:"board_id" binding:"required"`
}

type ReorderColumnsRequest struct {
	ColumnIDs []string `json:"column_ids" binding:"required"`
}

func boardResponse(board *model.Board) BoardResponse {
	resp := BoardResponse{
		ID:                board.ID.String(),
		Title:             board.Title,
		Identifier:        board.Identifier,
		IsProductionBoard: board.IsProductionBoard,
		IsOfferBoard:      board.IsOfferBoard,
	}
	if board.CategoryID != nil {
		id := board.CategoryID.String()
		resp.CategoryID = &id
	}
	return resp
}

func columnResponse(column model.Column) ColumnResponse {
	return ColumnResponse{
		ID:               column.ID.String(),
		BoardID:          column.BoardID.String(),
		Title:            column.Title,
		Identifier:       column.Identifier,
		Position:         column.Position,
		ColumnType:       column.ColumnType,
		IsCreationColumn: column.IsCreationColumn,
	}
}

func parseOptionalUUID(raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// Create creates a board with its columns.
// @Summary Create a board
// @Tags Boards
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateBoardRequest true "Board definition"
// @Success 201 {object} BoardResponse
// @Router /kanban [post]
func (h *BoardHandler) Create(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	categoryID, ok := parseOptionalUUID(req.CategoryID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
		return
	}
	targetWorkID, ok := parseOptionalUUID(req.TargetWorkBoardID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target work board ID format"})
		return
	}
	targetInvoiceID, ok := parseOptionalUUID(req.TargetInvoiceBoardID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target invoice board ID format"})
		return
	}

	input := service.BoardInput{
		Title:                req.Title,
		Identifier:           req.Identifier,
		CategoryID:           categoryID,
		IsProductionBoard:    req.IsProductionBoard,
		IsOfferBoard:         req.IsOfferBoard,
		TargetWorkBoardID:    targetWorkID,
		TargetInvoiceBoardID: targetInvoiceID,
	}
	for _, col := range req.Columns {
		input.Columns = append(input.Columns, service.ColumnInput{
			Title:            col.Title,
			Identifier:       col.Identifier,
			ColumnType:       col.ColumnType,
			IsCreationColumn: col.IsCreationColumn,
		})
	}

	board, err := h.boards.CreateBoard(c.Request.Context(), siteID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, boardResponse(board))
}

// List returns the boards of the resolved site. Viewing the board list
// also gives the history engine a chance to capture; the attempt is
// best-effort and never fails the request.
// @Summary List boards
// @Tags Boards
// @Security BearerAuth
// @Produce json
// @Success 200 {array} BoardResponse
// @Router /kanban/list [get]
func (h *BoardHandler) List(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	boards, err := h.boards.ListBoards(c.Request.Context(), siteID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Board views are the organic snapshot trigger; the cooldown inside
	// Capture keeps this from amplifying writes.
	if _, err := h.snapshots.Capture(c.Request.Context(), siteID); err != nil {
		log.Printf("⚠️  History capture failed: %v", err)
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = boardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// Duplicate deep-copies a board and its columns.
// @Summary Duplicate a board
// @Tags Boards
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body DuplicateBoardRequest true "Source board"
// @Success 201 {object} BoardResponse
// @Router /kanban/duplicate [post]
func (h *BoardHandler) Duplicate(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	var req DuplicateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	board, err := h.boards.DuplicateBoard(c.Request.Context(), siteID, boardID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, boardResponse(board))
}

// Delete removes a board that has no associated tasks.
// @Summary Delete a board
// @Tags Boards
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body DeleteBoardRequest true "Board to delete"
// @Success 200 {object} map[string]string
// @Router /kanban/delete [post]
func (h *BoardHandler) Delete(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	var req DeleteBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	if err := h.boards.DeleteBoard(c.Request.Context(), siteID, boardID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

// GetColumns returns the ordered columns of a board.
// @Summary List board columns
// @Tags Columns
// @Security BearerAuth
// @Produce json
// @Param id path string true "Board ID"
// @Success 200 {array} ColumnResponse
// @Router /kanban/{id}/columns [get]
func (h *BoardHandler) GetColumns(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	columns, err := h.boards.GetBoardColumns(c.Request.Context(), siteID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ColumnResponse, len(columns))
	for i, column := range columns {
		response[i] = columnResponse(column)
	}
	c.JSON(http.StatusOK, response)
}

// ReorderColumns rewrites the column order of a board.
// @Summary Reorder board columns
// @Tags Columns
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Board ID"
// @Param request body ReorderColumnsRequest true "Ordered column ids"
// @Success 200 {object} map[string]string
// @Router /kanban/{id}/columns/reorder [post]
func (h *BoardHandler) ReorderColumns(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	var req ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	orderedIDs := make([]uuid.UUID, len(req.ColumnIDs))
	for i, raw := range req.ColumnIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
			return
		}
		orderedIDs[i] = id
	}

	if err := h.boards.ReorderColumns(c.Request.Context(), siteID, boardID, orderedIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Columns reordered successfully"})
}
