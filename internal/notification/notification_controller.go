package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pcmclub/pcm-backend/internal/middleware"
	"github.com/pcmclub/pcm-backend/pkg/responses"
)

type NotificationController struct {
	repo NotificationRepository
}

func NewNotificationController(repo NotificationRepository) *NotificationController {
	return &NotificationController{repo: repo}
}

// List godoc
// @Summary List the authenticated member's notifications
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Notification}
// @Router /notifications [get]
// @Security BearerAuth
func (nc *NotificationController) List(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := nc.repo.GetByReceiver(memberID, page, pageSize)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve notifications", err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Notifications retrieved successfully", notifications, total, page, pageSize)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /notifications/{id}/read [put]
// @Security BearerAuth
func (nc *NotificationController) MarkRead(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid notification ID", nil)
		return
	}

	updated, err := nc.repo.MarkRead(uint(id), memberID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update notification", err.Error())
		return
	}
	if !updated {
		responses.SendError(c, http.StatusNotFound, "Notification not found", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Notification marked as read", nil)
}
