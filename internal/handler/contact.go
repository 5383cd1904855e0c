package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/service/contact"
)

type ContactHandler struct {
	svc *contact.Service
}

func NewContactHandler(svc *contact.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if _, err := h.svc.Submit(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "thank you for reaching out, we will get back to you soon")
}

func (h *ContactHandler) ListMessages(c *gin.Context) {
	messages, err := h.svc.List(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, messages)
}
