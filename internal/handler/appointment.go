package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShubhenduKH/TestMyBlood/internal/middleware"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/service/appointment"
)

type AppointmentHandler struct {
	svc *appointment.Service
}

func NewAppointmentHandler(svc *appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	a, err := h.svc.Create(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	a, err := h.svc.Get(c.Request.Context(), user, c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	appointments, err := h.svc.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, appointments)
}

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	appointments, err := h.svc.ListAll(c.Request.Context(), model.AppointmentStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, appointments)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	a, err := h.svc.UpdateStatus(c.Request.Context(), user, c.Param("ref"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "status updated", a)
}
