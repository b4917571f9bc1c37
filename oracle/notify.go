package oracle

// Update notifications for external observers. The engine publishes onto a
// buffered channel; the Notifier goroutine logs events and fans them out to
// any registered subscribers. A full queue drops the event rather than
// stalling a mutation.

import (
	"crypto/rand"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
)

type UpdateNotification struct {
	Id    string    `json:"id"`
	Time  time.Time `json:"time"`
	Kind  string    `json:"kind"` // "rrset", "algorithm" or "digest"
	Name  string    `json:"name,omitempty"`
	Type  uint16    `json:"type,omitempty"`
	Class uint16    `json:"class,omitempty"`
	AlgId uint8     `json:"algid,omitempty"`
}

func (e *Engine) notify(n UpdateNotification) {
	now := e.nowFn()
	n.Id = ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	n.Time = now
	select {
	case e.NotifyQ <- n:
	default:
		log.Printf("notify: queue full, dropping %s notification %s", n.Kind, n.Id)
	}
}

// Subscribe returns a channel that receives a copy of every notification
// dispatched after the Notifier picks the subscription up.
func (e *Engine) Subscribe() chan UpdateNotification {
	ch := make(chan UpdateNotification, 16)
	e.mu.Lock()
	e.subscribers = append(e.subscribers, ch)
	e.mu.Unlock()
	return ch
}

// NotifierEngine consumes the notification queue until stopch closes.
// Run as a goroutine from the daemon mainloop.
func (e *Engine) NotifierEngine(stopch chan struct{}) {
	log.Printf("NotifierEngine: starting")
	for {
		select {
		case n := <-e.NotifyQ:
			if Globals.Verbose {
				log.Printf("NotifierEngine: %s update %s (name %s)", n.Kind, n.Id, n.Name)
			}
			e.mu.Lock()
			subs := e.subscribers
			e.mu.Unlock()
			for _, ch := range subs {
				select {
				case ch <- n:
				default:
				}
			}
		case <-stopch:
			log.Printf("NotifierEngine: terminating")
			return
		}
	}
}
