package handler

import (
	"net/http"

	"officina/internal/service"

	"github.com/gin-gonic/gin"
)

type CronHandler struct {
	autoArchive *service.AutoArchiveService
}

func NewCronHandler(autoArchive *service.AutoArchiveService) *CronHandler {
	return &CronHandler{autoArchive: autoArchive}
}

// AutoArchive runs the expiry sweep. Wired for POST from the scheduler and
// GET for manual triggers; the sweep itself is idempotent.
// @Summary Archive expired tasks
// @Tags Cron
// @Produce json
// @Success 200 {object} service.SweepResult
// @Router /cron/auto-archive [post]
func (h *CronHandler) AutoArchive(c *gin.Context) {
	result, err := h.autoArchive.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
