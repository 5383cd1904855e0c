package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShubhenduKH/TestMyBlood/internal/middleware"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/service/auth"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	profile, err := h.svc.Profile(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	profile, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "profile updated", profile)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.svc.ChangePassword(c.Request.Context(), user.ID, &req); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "password changed")
}
