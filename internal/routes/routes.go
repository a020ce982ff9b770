package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/detailing-scheduler/internal/audit"
	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
	"github.com/BruksfildServices01/detailing-scheduler/internal/db"
	"github.com/BruksfildServices01/detailing-scheduler/internal/handlers"
	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
	"github.com/BruksfildServices01/detailing-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/appointment"
)

type Deps struct {
	Config   *config.Config
	Storage  *db.Storage
	Log      zerolog.Logger
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// RegisterRoutes mounts every endpoint and returns the shutdown hook for
// the background pieces it started (audit worker, kafka writer).
func RegisterRoutes(r *gin.Engine, d Deps) func(ctx context.Context) error {
	cfg := d.Config
	log := d.Log

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	store := d.Storage.Store

	var auditSink audit.Sink = audit.NewLogSink(log)
	if d.Storage.DB != nil {
		auditSink = audit.NewGormSink(d.Storage.DB)
	}
	auditDispatcher := audit.NewDispatcher(auditSink, log, d.Metrics)

	notifySinks := notify.MultiSink{notify.NewLogSink(log)}
	var kafkaSink *notify.KafkaSink
	if len(cfg.Notify.KafkaBrokers) > 0 {
		kafkaSink = notify.NewKafkaSink(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		notifySinks = append(notifySinks, kafkaSink)
	}
	composer := notify.NewComposer(cfg.Notify.BusinessName, cfg.Notify.CountryCode)

	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	// ======================================================
	// 🧠 USE CASES (APPOINTMENTS)
	// ======================================================
	createBookingUC := ucAppointment.NewCreateBooking(
		store,
		d.Storage.Locker,
		auditDispatcher,
		d.Metrics,
		log,
		ucAppointment.BookingRules{
			Location:       timezone.Location(cfg.Booking.Timezone),
			MinAdvanceDays: cfg.Booking.MinAdvanceDays,
			MaxAdvanceDays: cfg.Booking.MaxAdvanceDays,
		},
	)

	availabilityUC := ucAppointment.NewCheckAvailability(store)

	changeStatusUC := ucAppointment.NewChangeStatus(
		store,
		composer,
		notifySinks,
		auditDispatcher,
		d.Metrics,
		log,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(store, auditDispatcher)
	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(store, auditDispatcher)
	listDashboardUC := ucAppointment.NewListDashboard(store)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(createBookingUC, availabilityUC, log)
	collectionHandler := handlers.NewCollectionHandler(store, log)
	adminAuthHandler := handlers.NewAdminAuthHandler(cfg.Admin, log)

	adminAppointmentHandler := handlers.NewAdminAppointmentHandler(
		listDashboardUC,
		updateAppointmentUC,
		changeStatusUC,
		deleteAppointmentUC,
		log,
	)

	// ======================================================
	// 🩺 HEALTH / METRICS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.POST("/bookings", bookingLimiter.Middleware(), bookingHandler.Create)
		api.GET("/availability", bookingHandler.Availability)
		api.GET("/catalog", bookingHandler.Catalog)

		// ------------------------------
		// 📦 COLEÇÃO (sem autenticação)
		// ------------------------------
		collection := api.Group("/appointments")
		{
			collection.GET("", collectionHandler.List)
			collection.POST("", collectionHandler.Create)
			collection.PUT("/:id", collectionHandler.Update)
			collection.DELETE("/:id", collectionHandler.Delete)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/admin/login", loginLimiter.Middleware(), adminAuthHandler.Login)
		api.POST("/admin/logout", adminAuthHandler.Logout)
		api.GET("/admin/session", adminAuthHandler.Session)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(cfg.Admin.JWTSecret))
		{
			admin.GET("/appointments", adminAppointmentHandler.List)
			admin.GET("/appointments/export", adminAppointmentHandler.Export)
			admin.PATCH("/appointments/:id", adminAppointmentHandler.Update)
			admin.PATCH("/appointments/:id/status", adminAppointmentHandler.ChangeStatus)
			admin.DELETE("/appointments/:id", adminAppointmentHandler.Delete)

			if d.Storage.Gorm != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(d.Storage.Gorm)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}

	return func(ctx context.Context) error {
		err := auditDispatcher.Close(ctx)
		if kafkaSink != nil {
			err = errors.Join(err, kafkaSink.Close())
		}
		return err
	}
}
