package handler

import (
	"net/http"
	"time"

	"officina/internal/model"
	"officina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type CreateTaskRequest struct {
	BoardID       *string    `json:"board_id"`
	CategoryID    *string    `json:"category_id"`
	Title         string     `json:"title" binding:"required"`
	UniqueCode    string     `json:"unique_code" binding:"required"`
	ClientID      *string    `json:"client_id"`
	DeliveryDate  *time.Time `json:"delivery_date"`
	AutoArchiveAt *time.Time `json:"auto_archive_at"`
}

type MoveTaskRequest struct {
	ColumnID string `json:"column_id" binding:"required"`
}

type ArchiveTaskRequest struct {
	Archived bool `json:"archived"`
}

type TaskResponse struct {
	ID            string     `json:"id"`
	BoardID       string     `json:"board_id"`
	ColumnID      string     `json:"column_id"`
	Title         string     `json:"title"`
	UniqueCode    string     `json:"unique_code"`
	Archived      bool       `json:"archived"`
	ParentTaskID  *string    `json:"parent_task_id,omitempty"`
	DeliveryDate  *time.Time `json:"delivery_date,omitempty"`
	AutoArchiveAt *time.Time `json:"auto_archive_at,omitempty"`
}

func taskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:            task.ID.String(),
		BoardID:       task.BoardID.String(),
		ColumnID:      task.ColumnID.String(),
		Title:         task.Title,
		UniqueCode:    task.UniqueCode,
		Archived:      task.Archived,
		DeliveryDate:  task.DeliveryDate,
		AutoArchiveAt: task.AutoArchiveAt,
	}
	if task.ParentTaskID != nil {
		id := task.ParentTaskID.String()
		resp.ParentTaskID = &id
	}
	return resp
}

// Create places a new task into a board's creation column.
// @Summary Create a task
// @Tags Tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateTaskRequest true "Task"
// @Success 201 {object} TaskResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardID, ok := parseOptionalUUID(req.BoardID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}
	categoryID, ok := parseOptionalUUID(req.CategoryID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
		return
	}
	clientID, ok := parseOptionalUUID(req.ClientID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID format"})
		return
	}
	if boardID == nil && categoryID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either board_id or category_id is required"})
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), siteID, service.TaskInput{
		BoardID:       boardID,
		CategoryID:    categoryID,
		Title:         req.Title,
		UniqueCode:    req.UniqueCode,
		ClientID:      clientID,
		DeliveryDate:  req.DeliveryDate,
		AutoArchiveAt: req.AutoArchiveAt,
	}, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskResponse(task))
}

// Move transfers a task to another column.
// @Summary Move a task
// @Tags Tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body MoveTaskRequest true "Target column"
// @Success 200 {object} TaskResponse
// @Router /tasks/{id}/move [post]
func (h *TaskHandler) Move(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	columnID, err := uuid.Parse(req.ColumnID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	task, err := h.tasks.MoveTask(c.Request.Context(), siteID, taskID, columnID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskResponse(task))
}

// Archive toggles the archived flag of a task.
// @Summary Archive or un-archive a task
// @Tags Tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body ArchiveTaskRequest true "Archive flag"
// @Success 200 {object} map[string]string
// @Router /tasks/{id}/archive [post]
func (h *TaskHandler) Archive(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req ArchiveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.tasks.ArchiveTask(c.Request.Context(), &siteID, taskID, req.Archived, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}

// Convert generates a work order from an offer task.
// @Summary Convert an offer into a work order
// @Tags Tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Offer task ID"
// @Success 201 {object} TaskResponse
// @Router /tasks/{id}/convert [post]
func (h *TaskHandler) Convert(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.tasks.ConvertOffer(c.Request.Context(), siteID, taskID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskResponse(task))
}

// GetByColumn lists the active tasks of a column.
// @Summary List column tasks
// @Tags Tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Column ID"
// @Success 200 {array} TaskResponse
// @Router /columns/{id}/tasks [get]
func (h *TaskHandler) GetByColumn(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	columnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	tasks, err := h.tasks.GetTasksByColumn(c.Request.Context(), siteID, columnID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = taskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}
