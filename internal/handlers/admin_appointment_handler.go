package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/export"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AdminAppointmentHandler struct {
	dashboard    *ucAppointment.ListDashboard
	update       *ucAppointment.UpdateAppointment
	changeStatus *ucAppointment.ChangeStatus
	delete       *ucAppointment.DeleteAppointment
	log          zerolog.Logger
}

func NewAdminAppointmentHandler(
	dashboard *ucAppointment.ListDashboard,
	update *ucAppointment.UpdateAppointment,
	changeStatus *ucAppointment.ChangeStatus,
	delete *ucAppointment.DeleteAppointment,
	log zerolog.Logger,
) *AdminAppointmentHandler {
	return &AdminAppointmentHandler{
		dashboard:    dashboard,
		update:       update,
		changeStatus: changeStatus,
		delete:       delete,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *AdminAppointmentHandler) List(c *gin.Context) {
	d, err := h.dashboard.Execute(c.Request.Context(), ucAppointment.DashboardQuery{
		Search: c.Query("q"),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, d)
}

// ======================================================
// UPDATE / STATUS / DELETE
// ======================================================

func (h *AdminAppointmentHandler) Update(c *gin.Context) {
	var change domain.Update
	if err := c.ShouldBindJSON(&change); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), c.Param("id"), change, middleware.Actor(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AdminAppointmentHandler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Informe o status.")
		return
	}

	res, err := h.changeStatus.Execute(c.Request.Context(), c.Param("id"), req.Status, middleware.Actor(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *AdminAppointmentHandler) Delete(c *gin.Context) {
	if err := h.delete.Execute(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// EXPORT
// ======================================================

// Export downloads the dashboard view (same ?q= filter) as xlsx.
func (h *AdminAppointmentHandler) Export(c *gin.Context) {
	d, err := h.dashboard.Execute(c.Request.Context(), ucAppointment.DashboardQuery{
		Search: c.Query("q"),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	rows := make([]models.Appointment, 0, d.Matched)
	for _, g := range d.Groups {
		rows = append(rows, g.Appointments...)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="agendamentos.xlsx"`)
	c.Status(http.StatusOK)

	if err := export.WriteAppointments(c.Writer, rows); err != nil {
		h.log.Error().Err(err).Msg("xlsx export failed")
	}
}
