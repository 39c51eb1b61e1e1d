package invoice

import "time"

// DateLayout es el formato de fecha del mercado alemán (DD.MM.YYYY)
// usado en el artefacto de presentación.
const DateLayout = "02.01.2006"

// DefaultPaymentDays es el plazo de pago por defecto.
const DefaultPaymentDays = 14

// Identity identifica una factura emitida: número, fecha de emisión,
// fecha de prestación del servicio (Leistungsdatum) y vencimiento.
//
// Invariante: DueDate = IssueDate + días de pago configurados.
type Identity struct {
	Number      string
	IssueDate   time.Time
	ServiceDate string // texto libre en el documento; por defecto la fecha de emisión
	DueDate     time.Time
}

// NewIdentity construye la identidad de la factura. serviceDate vacío o
// "today" se sustituye por la fecha de emisión formateada.
func NewIdentity(number string, issueDate time.Time, serviceDate string, paymentDays int) Identity {
	if paymentDays <= 0 {
		paymentDays = DefaultPaymentDays
	}
	if serviceDate == "" || serviceDate == "today" {
		serviceDate = issueDate.Format(DateLayout)
	}
	return Identity{
		Number:      number,
		IssueDate:   issueDate,
		ServiceDate: serviceDate,
		DueDate:     issueDate.AddDate(0, 0, paymentDays),
	}
}
