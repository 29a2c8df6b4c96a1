package notification

import (
	"context"
	"log"
)

type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

// Dispatcher desacopla o core transacional da entrega: fila em
// memória com worker próprio. Entrega é best-effort: nunca falha o
// booking nem a transição que originou o evento.
type Dispatcher struct {
	handler Handler
	queue   chan Event
}

func NewDispatcher(handler Handler) *Dispatcher {
	d := &Dispatcher{
		handler: handler,
		queue:   make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.handler.Handle(context.Background(), ev); err != nil {
			log.Printf("notification error (%s #%d): %v", ev.Kind, ev.AppointmentID, err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enfileirado
	default:
		// fila cheia → descartamos a notificação (nunca quebrar API)
		log.Printf("notification queue full, dropping %s #%d", ev.Kind, ev.AppointmentID)
	}
}
