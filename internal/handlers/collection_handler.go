package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// CollectionHandler exposes the raw appointment collection without
// authentication, for clients that keep their own form logic.
type CollectionHandler struct {
	store domain.Store
	log   zerolog.Logger
}

func NewCollectionHandler(store domain.Store, log zerolog.Logger) *CollectionHandler {
	return &CollectionHandler{store: store, log: log}
}

func (h *CollectionHandler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": list})
}

// Create stores the body as sent except for id, createdAt and totalPrice,
// which the service owns.
func (h *CollectionHandler) Create(c *gin.Context) {
	var ap models.Appointment
	if err := c.ShouldBindJSON(&ap); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	st := domain.ServiceType(ap.ServiceType)
	svc, ok := domain.LookupService(st)
	if !ok {
		writeError(c, h.log, domain.ErrInvalidServiceType)
		return
	}

	total, _ := domain.TotalPrice(st, ap.HasWax)
	ap.TotalPrice = total
	ap.VehicleSize = string(svc.Size)

	if ap.Status != "" {
		status, err := domain.ParseStatus(ap.Status)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		ap.Status = string(status)
	}

	ap.ID = ""
	ap.CreatedAt = time.Time{}
	ap.UpdatedAt = time.Time{}

	created, err := h.store.Create(c.Request.Context(), ap)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, created)
}

func (h *CollectionHandler) Update(c *gin.Context) {
	var change domain.Update
	if err := c.ShouldBindJSON(&change); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if err := change.Validate(); err != nil {
		writeError(c, h.log, err)
		return
	}

	ap, err := h.store.Update(c.Request.Context(), c.Param("id"), change)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
