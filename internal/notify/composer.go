package notify

import (
	"fmt"
	"net/url"
	"strings"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/validators"
)

// Notification is a WhatsApp message ready to be opened or relayed.
type Notification struct {
	AppointmentID string                  `json:"appointmentId"`
	Kind          domain.NotificationKind `json:"kind"`
	Phone         string                  `json:"phone"`
	Message       string                  `json:"message"`
	Link          string                  `json:"link"`
}

type Composer struct {
	businessName string
	countryCode  string
}

func NewComposer(businessName, countryCode string) *Composer {
	return &Composer{businessName: businessName, countryCode: countryCode}
}

// Compose renders the message for kind. ok is false for NotifyNone.
func (c *Composer) Compose(ap models.Appointment, kind domain.NotificationKind) (Notification, bool) {
	var msg string
	switch kind {
	case domain.NotifyConfirmation:
		msg = c.confirmation(ap)
	case domain.NotifyCompletion:
		msg = c.completion(ap)
	default:
		return Notification{}, false
	}

	phone := c.internationalPhone(ap.Phone)
	return Notification{
		AppointmentID: ap.ID,
		Kind:          kind,
		Phone:         phone,
		Message:       msg,
		Link:          WhatsAppLink(phone, msg),
	}, true
}

func (c *Composer) internationalPhone(phone string) string {
	digits := validators.DigitsOnly(phone)
	// 10-11 digits is a national number even when the DDD equals the country code.
	if c.countryCode == "" || (len(digits) > 11 && strings.HasPrefix(digits, c.countryCode)) {
		return digits
	}
	return c.countryCode + digits
}

// WhatsAppLink builds a wa.me deep link; spaces are encoded as %20.
func WhatsAppLink(phone, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, text)
}

// ===============================
// Templates
// ===============================

type priceLines struct {
	serviceLabel string
	servicePrice float64
	waxLabel     string
	waxPrice     float64
	total        float64
}

func breakdown(ap models.Appointment) priceLines {
	svc, ok := domain.LookupService(domain.ServiceType(ap.ServiceType))
	if !ok {
		return priceLines{serviceLabel: ap.ServiceType, total: ap.TotalPrice}
	}

	p := priceLines{
		serviceLabel: svc.Tier.Label(),
		servicePrice: svc.Price,
		waxLabel:     svc.Size.Label(),
		total:        ap.TotalPrice,
	}
	if ap.HasWax {
		p.waxPrice = domain.WaxPrice(svc.Size)
	}
	if p.total == 0 {
		p.total = p.servicePrice + p.waxPrice
	}
	return p
}

func money(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

func (c *Composer) confirmation(ap models.Appointment) string {
	p := breakdown(ap)

	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s! Seu agendamento está *Confirmado* para *%s* às *%s*.\n\n", ap.ClientName, ap.Date, ap.Time)
	fmt.Fprintf(&b, "*Serviço:* %s\n", p.serviceLabel)
	fmt.Fprintf(&b, "*Veículo:* %s\n", ap.CarModel)
	fmt.Fprintf(&b, "*Placa:* %s\n\n", ap.Plate)

	b.WriteString("*Resumo do Orçamento*\n")
	fmt.Fprintf(&b, "- Serviço: %s\n", money(p.servicePrice))
	if ap.HasWax {
		fmt.Fprintf(&b, "- Cera (%s): %s\n", p.waxLabel, money(p.waxPrice))
	}
	fmt.Fprintf(&b, "*Total: %s*\n\n", money(p.total))

	fmt.Fprintf(&b, "Nos vemos em breve!\n*%s* 🚗✨", c.businessName)
	return b.String()
}

func (c *Composer) completion(ap models.Appointment) string {
	p := breakdown(ap)

	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s! Seu veículo *%s* está pronto para retirada! ✅\n\n", ap.ClientName, ap.CarModel)

	b.WriteString("*Serviço Realizado*\n")
	fmt.Fprintf(&b, "- %s", p.serviceLabel)
	if ap.HasWax {
		b.WriteString("\n- Aplicação de cera")
	}

	b.WriteString("\n\n*Resumo do Pagamento*\n")
	fmt.Fprintf(&b, "- Serviço: %s\n", money(p.servicePrice))
	if ap.HasWax {
		fmt.Fprintf(&b, "- Cera: %s\n", money(p.waxPrice))
	}
	fmt.Fprintf(&b, "*Total Pago: %s*\n\n", money(p.total))

	fmt.Fprintf(&b, "Obrigado por confiar na *%s*! Esperamos ver você novamente em breve. 🚗💫", c.businessName)
	return b.String()
}
