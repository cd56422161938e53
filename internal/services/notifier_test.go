package services_test

import (
	"errors"
	"testing"
	"time"

	"chiyasathi/internal/models"
	"chiyasathi/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(kind string, event interface{}) error {
	args := m.Called(kind, event)
	return args.Error(0)
}

func TestEventNotifier_PublishesTransitionsOnly(t *testing.T) {
	pub := new(MockPublisher)
	n := services.NewEventNotifier(pub)

	tr := services.Transition{From: models.StatusPreparing, To: models.StatusReady}
	event := services.Notification{ID: "n-1", OrderID: "o-1", Kind: services.KindReady, Transition: &tr}
	pub.On("PublishJSON", "ready", event).Return(errors.New("channel closed")).Once()

	n.Notify(event)
	n.Notify(services.Notification{ID: "n-2", Kind: services.KindPlaced, Message: "Order placed!"})
	pub.AssertExpectations(t)
	pub.AssertNumberOfCalls(t, "PublishJSON", 1)
}

func TestToastQueue(t *testing.T) {
	q := services.NewToastQueue()
	fanout := services.Notifiers{q, nil, services.LogNotifier{}}

	now := time.Now()
	fanout.Notify(services.Notification{ID: "old", Message: "Order placed!", At: now.Add(-services.ToastDuration - time.Second)})
	fanout.Notify(services.Notification{ID: "a", Message: "Order Accepted!", At: now})
	fanout.Notify(services.Notification{ID: "b", OrderID: "o-1", Message: "Order Ready! Head to the counter", At: now})

	visible := q.Visible()
	if assert.Len(t, visible, 2) {
		assert.Equal(t, "a", visible[0].ID)
	}

	q.Dismiss("a")
	visible = q.Visible()
	if assert.Len(t, visible, 1) {
		assert.Equal(t, "b", visible[0].ID)
	}
}
