package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

type businessMapping struct {
	status  int
	message string
}

var businessErrors = map[string]businessMapping{
	"appointment_not_found": {http.StatusNotFound, "Agendamento não encontrado."},
	"slot_taken":            {http.StatusConflict, "Este horário já está reservado. Por favor, selecione outro."},
	"invalid_status":        {http.StatusBadRequest, "Status inválido."},
	"invalid_service_type":  {http.StatusBadRequest, "Serviço inválido."},
	"invalid_vehicle_size":  {http.StatusBadRequest, "Tamanho do veículo inválido."},
	"vehicle_size_conflict": {http.StatusBadRequest, "O serviço selecionado não corresponde ao tamanho do veículo."},
	"invalid_date":          {http.StatusBadRequest, "Data inválida."},
	"empty_update":          {http.StatusBadRequest, "Nenhum campo para atualizar."},
}

// writeError maps use case errors to responses. Anything unknown is an
// I/O failure: logged, answered with a generic 500.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	if ve, ok := httperr.AsValidation(err); ok {
		httperr.Validation(c, ve)
		return
	}

	if code, ok := httperr.BusinessCode(err); ok {
		if code == "slot_taken" {
			httperr.Conflict(c, code, businessErrors[code].message)
			return
		}
		if m, known := businessErrors[code]; known {
			httperr.Write(c, m.status, code, m.message)
			return
		}
		httperr.BadRequest(c, code, "Requisição inválida.")
		return
	}

	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	httperr.Internal(c, "internal_error", "Erro interno. Tente novamente em instantes.")
}
