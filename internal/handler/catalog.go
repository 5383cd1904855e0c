package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/service/catalog"
)

type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListTests(c *gin.Context) {
	tests, err := h.svc.ListTests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, tests)
}

func (h *CatalogHandler) GetTest(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	t, err := h.svc.GetTest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, t)
}

func (h *CatalogHandler) ListLabs(c *gin.Context) {
	labs, err := h.svc.ListLabs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, labs)
}

func (h *CatalogHandler) ListTestCategories(c *gin.Context) {
	categories, err := h.svc.TestCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, categories)
}

func (h *CatalogHandler) ListDoctorSpecialties(c *gin.Context) {
	specialties, err := h.svc.DoctorSpecialties(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, specialties)
}

func (h *CatalogHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.svc.ListDoctors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, doctors)
}

func (h *CatalogHandler) GetDoctor(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	d, err := h.svc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, d)
}

// Admin catalog management.

func (h *CatalogHandler) ListAllTests(c *gin.Context) {
	tests, err := h.svc.ListAllTests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, tests)
}

func (h *CatalogHandler) CreateTest(c *gin.Context) {
	var req model.UpsertTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	t, err := h.svc.CreateTest(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, t)
}

func (h *CatalogHandler) UpdateTest(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var req model.UpsertTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	t, err := h.svc.UpdateTest(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "test updated", t)
}

func (h *CatalogHandler) SetTestActive(c *gin.Context) {
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
	if err := h.svc.SetTestActive(c.Request.Context(), id, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "test updated")
}

func (h *CatalogHandler) ListAllLabs(c *gin.Context) {
	labs, err := h.svc.ListAllLabs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, labs)
}

func (h *CatalogHandler) CreateLab(c *gin.Context) {
	var req model.UpsertLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	l, err := h.svc.CreateLab(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, l)
}

func (h *CatalogHandler) UpdateLab(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var req model.UpsertLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	l, err := h.svc.UpdateLab(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "lab updated", l)
}

func (h *CatalogHandler) SetLabActive(c *gin.Context) {
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
	if err := h.svc.SetLabActive(c.Request.Context(), id, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "lab updated")
}

func (h *CatalogHandler) ListAllDoctors(c *gin.Context) {
	doctors, err := h.svc.ListAllDoctors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, doctors)
}

func (h *CatalogHandler) CreateDoctor(c *gin.Context) {
	var req model.UpsertDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	d, err := h.svc.CreateDoctor(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, d)
}

func (h *CatalogHandler) UpdateDoctor(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var req model.UpsertDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	d, err := h.svc.UpdateDoctor(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "doctor updated", d)
}

func (h *CatalogHandler) SetDoctorActive(c *gin.Context) {
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
	if err := h.svc.SetDoctorActive(c.Request.Context(), id, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "doctor updated")
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
