package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ShubhenduKH/TestMyBlood/internal/middleware"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/notification"
)

type NotificationHandler struct {
	svc *notification.Service
}

func NewNotificationHandler(svc *notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// ListMine returns the caller's own notification history.
func (h *NotificationHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	f := model.NotificationFilter{
		UserID:     &user.ID,
		BookingRef: c.Query("booking_id"),
		Status:     model.NotificationStatus(c.Query("status")),
		Limit:      queryInt(c, "limit"),
	}
	items, err := h.svc.History(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, items)
}

// ListAll is the admin view of the delivery audit log.
func (h *NotificationHandler) ListAll(c *gin.Context) {
	f := model.NotificationFilter{
		BookingRef: c.Query("booking_id"),
		Status:     model.NotificationStatus(c.Query("status")),
		Limit:      queryInt(c, "limit"),
	}
	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.UserID = &id
		}
	}
	items, err := h.svc.History(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, items)
}

func (h *NotificationHandler) Resend(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.svc.Resend(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "notification resent")
}

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}
