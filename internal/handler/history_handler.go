package handler

import (
	"net/http"

	"officina/internal/service"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	snapshots *service.SnapshotService
}

func NewHistoryHandler(snapshots *service.SnapshotService) *HistoryHandler {
	return &HistoryHandler{snapshots: snapshots}
}

// Capture triggers a history snapshot of the site's tasks. Inside the
// cooldown window the call is a cheap no-op reporting "cooldown".
// @Summary Capture a task history snapshot
// @Tags History
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.CaptureResult
// @Router /history/capture [post]
func (h *HistoryHandler) Capture(c *gin.Context) {
	siteID, ok := requireSiteID(c)
	if !ok {
		return
	}

	result, err := h.snapshots.Capture(c.Request.Context(), siteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
