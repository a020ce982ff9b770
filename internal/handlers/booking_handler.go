package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// BookingHandler serves the public booking form.
type BookingHandler struct {
	create       *ucAppointment.CreateBooking
	availability *ucAppointment.CheckAvailability
	log          zerolog.Logger
}

func NewBookingHandler(
	create *ucAppointment.CreateBooking,
	availability *ucAppointment.CheckAvailability,
	log zerolog.Logger,
) *BookingHandler {
	return &BookingHandler{
		create:       create,
		availability: availability,
		log:          log,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var in ucAppointment.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// AVAILABILITY
// ======================================================

// Availability answers a single slot when time is given, otherwise the
// free slots of the day.
func (h *BookingHandler) Availability(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	t := strings.TrimSpace(c.Query("time"))
	excludeID := c.Query("exclude_id")

	if date == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data.")
		return
	}

	if t != "" {
		free, err := h.availability.IsAvailable(c.Request.Context(), date, t, excludeID)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"date":      date,
			"time":      t,
			"available": free,
		})
		return
	}

	slots, err := h.availability.FreeSlots(c.Request.Context(), date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// CATALOG
// ======================================================

func (h *BookingHandler) Catalog(c *gin.Context) {
	resp := gin.H{
		"services": domain.Catalog(),
		"wax":      domain.WaxPrices(),
		"slots":    domain.BusinessSlots,
	}

	if carModel := strings.TrimSpace(c.Query("carModel")); carModel != "" {
		resp["suggestedSize"] = domain.InferVehicleSize(carModel)
	}

	c.JSON(http.StatusOK, resp)
}
