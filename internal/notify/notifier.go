// Package notify delivers outbound mail on a best-effort basis. Sends are
// queued on a buffered channel and drained by a single worker; a full queue
// drops the message with a log line rather than blocking the caller, so a
// slow or dead mail server can never stall a report transition.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"goodcitizen/internal/model"
)

const (
	queueSize   = 100
	sendTimeout = 10 * time.Second
)

// Message is a single outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer performs the actual delivery.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier queues notifications and delivers them asynchronously.
type Notifier struct {
	mailer Mailer
	queue  chan Message
}

// New creates a Notifier and starts its delivery worker.
func New(mailer Mailer) *Notifier {
	n := &Notifier{
		mailer: mailer,
		queue:  make(chan Message, queueSize),
	}
	go n.worker()
	return n
}

func (n *Notifier) worker() {
	for msg := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := n.mailer.Send(ctx, msg); err != nil {
			log.Printf("notify: send to %s failed: %v", msg.To, err)
		}
		cancel()
	}
}

// enqueue hands a message to the worker without blocking.
func (n *Notifier) enqueue(msg Message) {
	select {
	case n.queue <- msg:
	default:
		log.Printf("notify: queue full, dropping mail to %s", msg.To)
	}
}

// NotifyAuthority tells an authority about a newly verified report assigned to it.
func (n *Notifier) NotifyAuthority(report *model.Report, authority *model.Authority, reporter *model.User) {
	n.enqueue(Message{
		To:      authority.Email,
		Subject: fmt.Sprintf("New verified report: %s", report.Category),
		Body: fmt.Sprintf(
			"A verified %s report (priority %s) has been assigned to %s.\n\n"+
				"Description: %s\nLocation: %f, %f %s\nPhoto: %s\nReported by: %s (%s)\n",
			report.Category, report.Priority, authority.Name,
			report.Description, report.Latitude, report.Longitude, report.Address,
			report.PhotoURL, reporter.Name, reporter.Email,
		),
	})
}

// NotifyWelcome greets a newly registered user.
func (n *Notifier) NotifyWelcome(user *model.User) {
	n.enqueue(Message{
		To:      user.Email,
		Subject: "Welcome to Good Citizen",
		Body: fmt.Sprintf(
			"Hi %s,\n\nThanks for joining. Submit reports of civic violations, "+
				"earn points when they are verified, and redeem them for rewards.\n",
			user.Name,
		),
	})
}
