package notify

import (
	"fmt"
	"strings"
	"time"
)

const (
	SubjectConfirmed = "Agendamento Confirmado"
	SubjectCancelled = "Agendamento Cancelado"
)

type Message struct {
	Subject string
	Body    string
}

// Appointment is what the shop mailbox needs to know about one booking.
type Appointment struct {
	ID       string
	Name     string
	Phone    string
	Date     time.Time
	Time     string
	Barber   string
	Services []string
	Total    int
}

func Confirmation(a Appointment) Message {
	return Message{Subject: SubjectConfirmed, Body: body(a)}
}

func Cancellation(a Appointment) Message {
	return Message{Subject: SubjectCancelled, Body: body(a)}
}

func body(a Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nome: %s\n", a.Name)
	fmt.Fprintf(&b, "Telefone: %s\n", a.Phone)
	fmt.Fprintf(&b, "Data: %s\n", a.Date.Format("02/01/2006"))
	fmt.Fprintf(&b, "Horário: %s\n", a.Time)
	fmt.Fprintf(&b, "Barbeiro: %s\n", a.Barber)
	fmt.Fprintf(&b, "Serviços: %s\n", strings.Join(a.Services, ", "))
	if a.Total > 0 {
		fmt.Fprintf(&b, "Total: R$ %d,00\n", a.Total)
	}
	fmt.Fprintf(&b, "ID: %s\n", a.ID)
	return b.String()
}
