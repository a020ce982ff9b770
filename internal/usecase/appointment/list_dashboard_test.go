package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

func dashboardFixture(t *testing.T) *ListDashboard {
	store := newStore()
	seed(t, store,
		models.Appointment{ClientName: "Carlos", Phone: "11911112222", CarModel: "Hilux", Plate: "HIL-0001", Date: "2024-10-16", Time: "08:00", Status: "pending"},
		models.Appointment{ClientName: "Ana", Phone: "11933334444", CarModel: "Civic", Plate: "CIV-0002", Date: "2024-10-15", Time: "14:00", Status: "confirmed"},
		models.Appointment{ClientName: "Bruno", Phone: "11955556666", CarModel: "Compass SUV", Plate: "SUV-0003", Date: "2024-10-15", Time: "9:00", Status: "pendente"},
		models.Appointment{ClientName: "Sem data", Date: "", Time: "10:00", Status: "pending"},
		models.Appointment{ClientName: "Hora ruim", Date: "2024-10-15", Time: "25:99", Status: "pending"},
	)
	return NewListDashboard(store)
}

func TestListDashboard_GroupsAndCounts(t *testing.T) {
	d, err := dashboardFixture(t).Execute(context.Background(), DashboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, d.Total)
	assert.Equal(t, 3, d.Matched)
	assert.Equal(t, 2, d.Pending)

	require.Len(t, d.Groups, 2)
	assert.Equal(t, "2024-10-15", d.Groups[0].Date)
	assert.Equal(t, "terça-feira, 15 de outubro de 2024", d.Groups[0].Label)
	require.Len(t, d.Groups[0].Appointments, 2)
	assert.Equal(t, "Bruno", d.Groups[0].Appointments[0].ClientName)
	assert.Equal(t, "Ana", d.Groups[0].Appointments[1].ClientName)
	assert.Equal(t, "quarta-feira, 16 de outubro de 2024", d.Groups[1].Label)
}

func TestListDashboard_Search(t *testing.T) {
	uc := dashboardFixture(t)
	ctx := context.Background()

	cases := map[string][]string{
		"civic":      {"Ana"},
		"HIL-":       {"Carlos"},
		"119555":     {"Bruno"},
		"16/10/2024": {"Carlos"},
		"confirm":    {"Ana"},
		"pendente":   {"Bruno", "Carlos"},
		"nada":       nil,
	}

	for q, want := range cases {
		d, err := uc.Execute(ctx, DashboardQuery{Search: q})
		require.NoError(t, err)

		var got []string
		for _, g := range d.Groups {
			for _, ap := range g.Appointments {
				got = append(got, ap.ClientName)
			}
		}
		assert.Equal(t, want, got, q)
		assert.Equal(t, 2, d.Pending, "pending ignores the filter")
	}
}

func TestLongDatePtBR(t *testing.T) {
	assert.Equal(t, "sábado, 01 de março de 2025", LongDatePtBR(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "domingo, 20 de outubro de 2024", LongDatePtBR(time.Date(2024, 10, 20, 0, 0, 0, 0, time.UTC)))
}
