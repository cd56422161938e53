package services

import (
	"log"
	"sync"
	"time"

	"chiyasathi/internal/models"

	"github.com/google/uuid"
)

// Kind identifies what a notification is about.
type Kind string

const (
	KindPlaced    Kind = "placed"
	KindAccepted  Kind = "accepted"
	KindReady     Kind = "ready"
	KindCancelled Kind = "cancelled"
	KindUpdated   Kind = "updated"
	KindDeleted   Kind = "deleted"
	KindMenu      Kind = "menu"
)

// Level is the toast style.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// ToastDuration is how long a toast stays visible.
const ToastDuration = 4 * time.Second

// Notification is a user-facing message raised by the client.
type Notification struct {
	ID         string      `json:"id"`
	OrderID    string      `json:"orderId,omitempty"`
	Kind       Kind        `json:"kind"`
	Transition *Transition `json:"transition,omitempty"`
	Message    string      `json:"message"`
	Level      Level       `json:"level"`
	At         time.Time   `json:"at"`
}

func newNotification(kind Kind, level Level, orderID, message string) Notification {
	return Notification{
		ID:      uuid.NewString(),
		OrderID: orderID,
		Kind:    kind,
		Message: message,
		Level:   level,
		At:      time.Now(),
	}
}

// Notifier receives notifications. Implementations must be safe for
// concurrent use since poll ticks run in their own goroutines.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Notifiers fans a notification out to every member.
type Notifiers []Notifier

// Notify hands n to every non-nil notifier in order.
func (ns Notifiers) Notify(n Notification) {
	for _, x := range ns {
		if x != nil {
			x.Notify(n)
		}
	}
}

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

// Notify logs n.
func (LogNotifier) Notify(n Notification) {
	if n.OrderID != "" {
		log.Printf("[%s] order %s: %s", n.Level, n.OrderID, n.Message)
		return
	}
	log.Printf("[%s] %s", n.Level, n.Message)
}

// EventPublisher publishes a JSON event under a kind; *rabbitmq.Client
// satisfies it.
type EventPublisher interface {
	PublishJSON(kind string, event interface{}) error
}

// EventNotifier forwards order status notifications to a message broker.
// Other kinds are ignored.
type EventNotifier struct {
	publisher EventPublisher
}

// NewEventNotifier creates a new EventNotifier.
func NewEventNotifier(publisher EventPublisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

// Notify publishes status transitions; other notifications are ignored.
func (e *EventNotifier) Notify(n Notification) {
	if n.Transition == nil {
		return
	}
	if err := e.publisher.PublishJSON(string(n.Kind), n); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", n.Kind, n.OrderID, err)
	}
}

// ToastQueue keeps notifications visible for ToastDuration.
type ToastQueue struct {
	mu     sync.Mutex
	toasts []Notification
	now    func() time.Time
}

// NewToastQueue creates an empty queue.
func NewToastQueue() *ToastQueue {
	return &ToastQueue{now: time.Now}
}

// Notify queues n as a toast.
func (q *ToastQueue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.prune(), n)
}

// Visible returns the toasts that have not yet expired, oldest first.
func (q *ToastQueue) Visible() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = q.prune()
	out := make([]Notification, len(q.toasts))
	copy(out, q.toasts)
	return out
}

// Dismiss removes a toast before it expires.
func (q *ToastQueue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return
		}
	}
}

func (q *ToastQueue) prune() []Notification {
	cutoff := q.now().Add(-ToastDuration)
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if t.At.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// transitionMessages are the customer messages for notifying transitions.
var transitionMessages = map[Kind]struct {
	text  string
	level Level
}{
	KindAccepted:  {"Order Accepted!", LevelSuccess},
	KindReady:     {"Order Ready! Head to the counter", LevelSuccess},
	KindCancelled: {"Order was cancelled", LevelError},
}

func transitionNotification(orderID string, t Transition) (Notification, bool) {
	kind, ok := t.Kind()
	if !ok {
		return Notification{}, false
	}
	m := transitionMessages[kind]
	n := newNotification(kind, m.level, orderID, m.text)
	n.Transition = &t
	return n, true
}

// ownerMessage is shown to the owner after a successful transition request.
func ownerMessage(status models.OrderStatus) string {
	if status == models.StatusCancelled {
		return "Order declined"
	}
	return "Order marked " + string(status)
}
