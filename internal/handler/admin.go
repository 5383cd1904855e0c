package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShubhenduKH/TestMyBlood/internal/middleware"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/service/user"
)

type AdminHandler struct {
	svc *user.Service
}

func NewAdminHandler(svc *user.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context(), model.UserRole(c.Query("user_type")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, users)
}

func (h *AdminHandler) ListCollectors(c *gin.Context) {
	collectors, err := h.svc.ListCollectors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, collectors)
}

func (h *AdminHandler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	u, err := h.svc.CreateStaff(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, u)
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	actor := middleware.CurrentUser(c)
	if err := h.svc.SetActive(c.Request.Context(), actor, id, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "user updated")
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
