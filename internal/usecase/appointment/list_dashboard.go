package appointment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type DashboardQuery struct {
	Search string
}

type DayGroup struct {
	Date         string               `json:"date"`
	Label        string               `json:"label"`
	Appointments []models.Appointment `json:"appointments"`
}

type Dashboard struct {
	Groups  []DayGroup `json:"groups"`
	Total   int        `json:"total"`
	Matched int        `json:"matched"`
	Pending int        `json:"pending"`
}

type ListDashboard struct {
	store domain.Store
}

func NewListDashboard(store domain.Store) *ListDashboard {
	return &ListDashboard{store: store}
}

// Execute drops records with a malformed date or time, filters by the
// search text and groups by day. Total and Pending count every valid
// record, Matched only the filtered ones.
func (uc *ListDashboard) Execute(ctx context.Context, q DashboardQuery) (*Dashboard, error) {
	ctx, span := tracer.Start(ctx, "appointment.list_dashboard")
	defer span.End()

	list, err := uc.store.List(ctx)
	if err != nil {
		return nil, spanError(span, err)
	}

	valid := make([]dashboardEntry, 0, len(list))
	pending := 0
	for _, ap := range list {
		e, ok := newDashboardEntry(ap)
		if !ok {
			continue
		}
		valid = append(valid, e)
		if st, err := domain.ParseStatus(ap.Status); err == nil && st == domain.StatusPending {
			pending++
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].at.Before(valid[j].at)
	})

	query := strings.ToLower(strings.TrimSpace(q.Search))
	groups := []DayGroup{}
	matched := 0
	for _, e := range valid {
		if !e.matches(query) {
			continue
		}
		matched++

		if n := len(groups); n > 0 && groups[n-1].Date == e.ap.Date {
			groups[n-1].Appointments = append(groups[n-1].Appointments, e.ap)
			continue
		}
		groups = append(groups, DayGroup{
			Date:         e.ap.Date,
			Label:        LongDatePtBR(e.at),
			Appointments: []models.Appointment{e.ap},
		})
	}

	span.SetAttributes(
		attribute.Int("dashboard.total", len(valid)),
		attribute.Int("dashboard.matched", matched),
	)

	return &Dashboard{
		Groups:  groups,
		Total:   len(valid),
		Matched: matched,
		Pending: pending,
	}, nil
}

type dashboardEntry struct {
	ap models.Appointment
	at time.Time
}

func newDashboardEntry(ap models.Appointment) (dashboardEntry, bool) {
	day, err := domain.ParseDate(ap.Date)
	if err != nil {
		return dashboardEntry{}, false
	}

	// H:MM is tolerated in stored records
	clock, err := time.Parse("15:04", ap.Time)
	if err != nil {
		return dashboardEntry{}, false
	}

	at := day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
	return dashboardEntry{ap: ap, at: at}, true
}

func (e dashboardEntry) matches(query string) bool {
	if query == "" {
		return true
	}

	fields := []string{
		e.ap.ClientName,
		e.ap.Phone,
		e.ap.CarModel,
		e.ap.Plate,
		e.ap.Status,
		e.at.Format("02/01/2006"),
	}
	if st, err := domain.ParseStatus(e.ap.Status); err == nil {
		fields = append(fields, st.Label())
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

var weekdaysPtBR = [...]string{
	"domingo", "segunda-feira", "terça-feira", "quarta-feira",
	"quinta-feira", "sexta-feira", "sábado",
}

var monthsPtBR = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// LongDatePtBR formats a calendar date like "terça-feira, 15 de outubro de 2024".
func LongDatePtBR(d time.Time) string {
	d = d.UTC()
	return fmt.Sprintf("%s, %02d de %s de %d",
		weekdaysPtBR[d.Weekday()],
		d.Day(),
		monthsPtBR[d.Month()-1],
		d.Year(),
	)
}
