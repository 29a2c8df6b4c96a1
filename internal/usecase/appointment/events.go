package appointment

import "github.com/barberian/booking-api/internal/notification"

// EventSink é o lado produtor do dispatcher de notificações.
// Interface própria para os testes registrarem eventos sem worker.
type EventSink interface {
	Dispatch(ev notification.Event)
}
