package appointment

import (
	"strings"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
)

var ErrInvalidStatus = httperr.ErrBusiness("invalid_status")

// Portuguese names used by older records and the admin panel.
var statusAliases = map[string]Status{
	"pendente":   StatusPending,
	"confirmado": StatusConfirmed,
	"finalizado": StatusCompleted,
	"concluido":  StatusCompleted,
}

func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch Status(v) {
	case StatusPending, StatusConfirmed, StatusCompleted:
		return Status(v), nil
	}
	if st, ok := statusAliases[v]; ok {
		return st, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusConfirmed:
		return "Confirmado"
	case StatusCompleted:
		return "Finalizado"
	}
	return string(s)
}

// InitialStatus define o status de todo agendamento recém-criado
func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Transitions
// ===============================

type NotificationKind string

const (
	NotifyNone         NotificationKind = ""
	NotifyConfirmation NotificationKind = "confirmation"
	NotifyCompletion   NotificationKind = "completion"
)

// Transition returns which customer message is due when moving from one
// status to another. Any status may be set from any other; only entering
// confirmed or completed produces a message.
func Transition(from, to Status) NotificationKind {
	if from == to {
		return NotifyNone
	}
	switch to {
	case StatusConfirmed:
		return NotifyConfirmation
	case StatusCompleted:
		return NotifyCompletion
	}
	return NotifyNone
}
