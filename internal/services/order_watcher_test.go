package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chiyasathi/internal/models"
	"chiyasathi/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconciler_SequenceNotifiesOnlyOnMeaningfulChanges(t *testing.T) {
	statuses := []models.OrderStatus{
		models.StatusPending,
		models.StatusPending,
		models.StatusPreparing,
		models.StatusReady,
		models.StatusReady,
		models.StatusServed,
	}

	var rec services.Reconciler
	var fired []services.Transition
	for i, s := range statuses {
		outcome, tr := rec.Observe(uint64(i+1), s)
		if i == 0 {
			assert.Equal(t, services.OutcomeFirst, outcome)
		}
		if outcome != services.OutcomeChanged {
			continue
		}
		if _, ok := tr.Kind(); ok {
			fired = append(fired, tr)
		}
	}

	require.Len(t, fired, 2)
	assert.Equal(t, "pending→preparing", fired[0].String())
	assert.Equal(t, "preparing→ready", fired[1].String())
}

func TestReconciler_IgnoresStaleResponses(t *testing.T) {
	var rec services.Reconciler

	outcome, _ := rec.Observe(1, models.StatusPending)
	assert.Equal(t, services.OutcomeFirst, outcome)

	outcome, tr := rec.Observe(3, models.StatusReady)
	assert.Equal(t, services.OutcomeChanged, outcome)
	assert.Equal(t, services.Transition{From: models.StatusPending, To: models.StatusReady}, tr)

	// tick 2 was slow and resolves after tick 3
	outcome, _ = rec.Observe(2, models.StatusPreparing)
	assert.Equal(t, services.OutcomeStale, outcome)

	status, ok := rec.Status()
	assert.True(t, ok)
	assert.Equal(t, models.StatusReady, status)

	outcome, _ = rec.Observe(3, models.StatusPending)
	assert.Equal(t, services.OutcomeStale, outcome, "same sequence is not newer")
}

func TestTransition_Kind(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		kind     services.Kind
		notifies bool
	}{
		{models.StatusPending, models.StatusPreparing, services.KindAccepted, true},
		{models.StatusPreparing, models.StatusReady, services.KindReady, true},
		{models.StatusPending, models.StatusCancelled, services.KindCancelled, true},
		{models.StatusPreparing, models.StatusCancelled, services.KindCancelled, true},
		{models.StatusReady, models.StatusCancelled, services.KindCancelled, true},
		{models.StatusReady, models.StatusServed, "", false},
		{models.StatusPending, models.StatusReady, "", false},
		{models.StatusCancelled, models.StatusCancelled, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"-"+string(tt.to), func(t *testing.T) {
			kind, ok := services.Transition{From: tt.from, To: tt.to}.Kind()
			assert.Equal(t, tt.notifies, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

// scriptedOrders answers GetByID with the next scripted status, repeating
// the last one forever. The call numbered failAt fails instead.
type scriptedOrders struct {
	MockOrderRepository
	mu       sync.Mutex
	statuses []models.OrderStatus
	served   int
	calls    int
	failAt   int
}

func (s *scriptedOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls == s.failAt {
		return nil, errors.New("connection reset")
	}
	i := s.served
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	s.served++
	return &models.Order{ID: id, Status: s.statuses[i]}, nil
}

func (s *scriptedOrders) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestOrderService_WatchOrderNotifiesAndStops(t *testing.T) {
	repo := &scriptedOrders{
		statuses: []models.OrderStatus{
			models.StatusPending,
			models.StatusPending,
			models.StatusPreparing,
			models.StatusReady,
			models.StatusReady,
			models.StatusServed,
		},
		failAt: 2,
	}
	notes := &recorder{}
	svc := services.NewOrderService(repo, newSession(t, models.RoleCustomer, "T1"), notes,
		services.PollIntervals{Order: 20 * time.Millisecond})

	var mu sync.Mutex
	var seen []models.OrderStatus
	h := svc.WatchOrder(context.Background(), "o-1", func(o models.Order) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, o.Status)
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == models.StatusServed
	}, 2*time.Second, 10*time.Millisecond)

	h.Stop()
	h.Stop()
	h.Wait()
	select {
	case <-h.Done():
	default:
		t.Fatal("handle not done after Wait")
	}

	assert.Equal(t, []services.Kind{services.KindAccepted, services.KindReady}, notes.kinds())
	msgs := notes.all()
	assert.Equal(t, "Order Accepted!", msgs[0].Message)
	assert.Equal(t, "Order Ready! Head to the counter", msgs[1].Message)
	assert.Equal(t, "o-1", msgs[1].OrderID)

	calls := repo.callCount()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, calls, repo.callCount(), "no polling after Stop")
}

func TestOrderService_WatchOrderStopFromCallback(t *testing.T) {
	repo := &scriptedOrders{statuses: []models.OrderStatus{
		models.StatusPending,
		models.StatusServed,
	}}
	svc := services.NewOrderService(repo, newSession(t, models.RoleCustomer, "T1"), nil,
		services.PollIntervals{Order: 10 * time.Millisecond})

	var h *services.Handle
	ready := make(chan struct{})
	stopped := make(chan struct{})
	var once sync.Once
	h = svc.WatchOrder(context.Background(), "o-1", func(o models.Order) {
		<-ready
		if o.Status.IsTerminal() {
			h.Stop()
			once.Do(func() { close(stopped) })
		}
	})
	close(ready)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop inside the update callback did not return")
	}
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not exit after Stop from callback")
	}

	calls := repo.callCount()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, calls, repo.callCount(), "no polling after Stop")
}

func TestOrderService_WatchOrderStopsWithContext(t *testing.T) {
	repo := &scriptedOrders{statuses: []models.OrderStatus{models.StatusPending}}
	svc := services.NewOrderService(repo, newSession(t, models.RoleCustomer, "T1"), nil,
		services.PollIntervals{Order: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	h := svc.WatchOrder(ctx, "o-1", nil)
	require.Eventually(t, func() bool { return repo.callCount() == 1 }, time.Second, 5*time.Millisecond,
		"first fetch is immediate")

	cancel()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("poller did not exit after context cancellation")
	}
}

func TestOrderService_WatchBoard(t *testing.T) {
	repo := new(MockOrderRepository)
	now := time.Now()
	repo.On("GetAll", mock.Anything).Return([]models.Order{
		{ID: "o-1", Status: models.StatusPending, TotalAmount: 100, CreatedAt: now},
		{ID: "o-2", Status: models.StatusServed, TotalAmount: 80, CreatedAt: now},
	}, nil)
	svc := services.NewOrderService(repo, newSession(t, models.RoleOwner, ""), nil,
		services.PollIntervals{Board: time.Hour})

	boards := make(chan *services.Board, 1)
	h := svc.WatchBoard(context.Background(), func(b *services.Board) { boards <- b })
	defer h.Wait()
	defer h.Stop()

	select {
	case b := <-boards:
		assert.Equal(t, 1, b.Counts()[services.TabPending])
		assert.Equal(t, 1, b.Counts()[services.TabHistory])
	case <-time.After(time.Second):
		t.Fatal("no board received")
	}
}
