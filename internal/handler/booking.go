package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShubhenduKH/TestMyBlood/internal/middleware"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/service/booking"
)

type BookingHandler struct {
	svc *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	b, err := h.svc.Create(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, b)
}

func (h *BookingHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	b, err := h.svc.Get(c.Request.Context(), user, c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, b)
}

// ListMine serves both patients and collectors: patients see bookings
// they made, collectors see bookings assigned to them.
func (h *BookingHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	f := bookingFilterFromQuery(c)

	var (
		bookings []*model.Booking
		err      error
	)
	if user.Role == model.RoleCollector {
		bookings, err = h.svc.ListForCollector(c.Request.Context(), user.ID, f)
	} else {
		bookings, err = h.svc.ListMine(c.Request.Context(), user.ID, f)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, bookings)
}

func (h *BookingHandler) ListAll(c *gin.Context) {
	bookings, err := h.svc.ListAll(c.Request.Context(), bookingFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, bookings)
}

func (h *BookingHandler) AssignCollector(c *gin.Context) {
	var req model.AssignCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	b, err := h.svc.AssignCollector(c.Request.Context(), c.Param("ref"), req.CollectorID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "collector assigned", b)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req model.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	b, err := h.svc.UpdateStatus(c.Request.Context(), user, c.Param("ref"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "status updated", b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	user := middleware.CurrentUser(c)
	b, err := h.svc.Cancel(c.Request.Context(), user, c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "booking cancelled", b)
}

// UploadReport accepts multipart form data with an optional "report"
// file and optional "report_url" and "notes" fields.
func (h *BookingHandler) UploadReport(c *gin.Context) {
	user := middleware.CurrentUser(c)

	fh, err := c.FormFile("report")
	if err != nil && err != http.ErrMissingFile {
		respondBadRequest(c, err)
		return
	}

	var url, notes *string
	if v := c.PostForm("report_url"); v != "" {
		url = &v
	}
	if v := c.PostForm("notes"); v != "" {
		notes = &v
	}

	b, err := h.svc.UploadReport(c.Request.Context(), user, c.Param("ref"), fh, url, notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "report uploaded", b)
}

// DownloadReport streams a stored report file or redirects to an
// external report URL, in that order of precedence.
func (h *BookingHandler) DownloadReport(c *gin.Context) {
	user := middleware.CurrentUser(c)
	loc, err := h.svc.Report(c.Request.Context(), user, c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	if loc.FilePath != "" {
		if loc.ContentType != "" {
			c.Header("Content-Type", loc.ContentType)
		}
		c.FileAttachment(loc.FilePath, loc.Filename)
		return
	}
	c.Redirect(http.StatusFound, loc.RedirectURL)
}

func bookingFilterFromQuery(c *gin.Context) model.BookingFilter {
	return model.BookingFilter{
		Status: model.BookingStatus(c.Query("status")),
		Date:   c.Query("date"),
		Search: c.Query("search"),
	}
}
