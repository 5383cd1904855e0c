package router

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
	"github.com/ShubhenduKH/TestMyBlood/internal/handler"
	"github.com/ShubhenduKH/TestMyBlood/internal/middleware"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository"
	"github.com/ShubhenduKH/TestMyBlood/pkg/auth"
	"github.com/ShubhenduKH/TestMyBlood/pkg/metrics"
)

type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Catalog      *handler.CatalogHandler
	Booking      *handler.BookingHandler
	Payment      *handler.PaymentHandler
	Appointment  *handler.AppointmentHandler
	Notification *handler.NotificationHandler
	Contact      *handler.ContactHandler
	Admin        *handler.AdminHandler
}

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
			return pincodePattern.MatchString(fl.Field().String())
		})
	}
}

func New(
	cfg *config.Config,
	jwt auth.JWTService,
	users repository.UserRepository,
	h Handlers,
	logger zerolog.Logger,
) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		metrics.HTTPMiddleware(),
		middleware.CORS(cfg.Frontend.BaseURL),
		middleware.RateLimit(cfg.RateLimit),
	)

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	// Public surface: registration, login, the catalog, and the
	// gateway webhook (authenticated by its signature, not a token).
	v1.POST("/auth/register", h.Auth.Register)
	v1.POST("/auth/login", h.Auth.Login)
	v1.GET("/tests", h.Catalog.ListTests)
	v1.GET("/tests/categories", h.Catalog.ListTestCategories)
	v1.GET("/tests/:id", h.Catalog.GetTest)
	v1.GET("/labs", h.Catalog.ListLabs)
	v1.GET("/doctors", h.Catalog.ListDoctors)
	v1.GET("/doctors/specialties", h.Catalog.ListDoctorSpecialties)
	v1.GET("/doctors/:id", h.Catalog.GetDoctor)
	v1.POST("/contact", h.Contact.Submit)
	v1.POST("/payments/webhook", h.Payment.Webhook)

	authed := v1.Group("", middleware.Auth(jwt, users))
	{
		authed.GET("/auth/profile", h.Auth.Profile)
		authed.PUT("/auth/profile", h.Auth.UpdateProfile)
		authed.POST("/auth/change-password", h.Auth.ChangePassword)

		authed.POST("/bookings", h.Booking.Create)
		authed.GET("/bookings", h.Booking.ListMine)
		authed.GET("/bookings/:ref", h.Booking.Get)
		authed.POST("/bookings/:ref/cancel", h.Booking.Cancel)
		authed.GET("/bookings/:ref/report", h.Booking.DownloadReport)
		authed.PATCH("/bookings/:ref/status",
			middleware.RequireRole(model.RoleCollector, model.RoleAdmin),
			h.Booking.UpdateStatus)

		authed.POST("/payments/order", h.Payment.CreateOrder)
		authed.POST("/payments/verify", h.Payment.Verify)
		authed.GET("/payments/:ref/status", h.Payment.Status)

		authed.POST("/appointments", h.Appointment.Create)
		authed.GET("/appointments", h.Appointment.ListMine)
		authed.GET("/appointments/:ref", h.Appointment.Get)
		authed.PATCH("/appointments/:ref/status", h.Appointment.UpdateStatus)

		authed.GET("/notifications", h.Notification.ListMine)
	}

	admin := v1.Group("/admin", middleware.Auth(jwt, users), middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("/dashboard", h.Admin.Dashboard)

		admin.GET("/users", h.Admin.ListUsers)
		admin.POST("/users", h.Admin.CreateStaff)
		admin.PATCH("/users/:id/active", h.Admin.SetUserActive)
		admin.GET("/collectors", h.Admin.ListCollectors)

		admin.GET("/bookings", h.Booking.ListAll)
		admin.POST("/bookings/:ref/assign", h.Booking.AssignCollector)
		admin.POST("/bookings/:ref/report", h.Booking.UploadReport)

		admin.POST("/payments/refund", h.Payment.Refund)

		admin.GET("/tests", h.Catalog.ListAllTests)
		admin.POST("/tests", h.Catalog.CreateTest)
		admin.PUT("/tests/:id", h.Catalog.UpdateTest)
		admin.PATCH("/tests/:id/active", h.Catalog.SetTestActive)

		admin.GET("/labs", h.Catalog.ListAllLabs)
		admin.POST("/labs", h.Catalog.CreateLab)
		admin.PUT("/labs/:id", h.Catalog.UpdateLab)
		admin.PATCH("/labs/:id/active", h.Catalog.SetLabActive)

		admin.GET("/doctors", h.Catalog.ListAllDoctors)
		admin.POST("/doctors", h.Catalog.CreateDoctor)
		admin.PUT("/doctors/:id", h.Catalog.UpdateDoctor)
		admin.PATCH("/doctors/:id/active", h.Catalog.SetDoctorActive)

		admin.GET("/appointments", h.Appointment.ListAll)

		admin.GET("/messages", h.Contact.ListMessages)

		admin.GET("/notifications", h.Notification.ListAll)
		admin.POST("/notifications/:id/resend", h.Notification.Resend)
	}

	return r
}
