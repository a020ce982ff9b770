package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

const SheetName = "Agendamentos"

var headers = []string{
	"Data", "Horário", "Cliente", "Telefone", "Veículo", "Placa",
	"Serviço", "Cera", "Total (R$)", "Status", "Observações",
}

// WriteAppointments renders one row per appointment, in the given order,
// as an xlsx workbook.
func WriteAppointments(w io.Writer, aps []models.Appointment) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
		_ = f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	_ = f.SetColWidth(SheetName, "A", "B", 12)
	_ = f.SetColWidth(SheetName, "C", "G", 22)
	_ = f.SetColWidth(SheetName, "K", "K", 40)

	for i, ap := range aps {
		row := i + 2
		values := []any{
			formatDate(ap.Date),
			ap.Time,
			ap.ClientName,
			ap.Phone,
			ap.CarModel,
			ap.Plate,
			serviceLabel(ap.ServiceType),
			yesNo(ap.HasWax),
			ap.TotalPrice,
			statusLabel(ap.Status),
			ap.Observations,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func formatDate(date string) string {
	d, err := domain.ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("02/01/2006")
}

func serviceLabel(st string) string {
	if svc, ok := domain.LookupService(domain.ServiceType(st)); ok {
		return svc.Label
	}
	return st
}

func statusLabel(s string) string {
	if st, err := domain.ParseStatus(s); err == nil {
		return st.Label()
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
