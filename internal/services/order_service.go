package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"chiyasathi/internal/models"
	"chiyasathi/internal/repositories"
	"chiyasathi/internal/validation"

	"github.com/go-playground/validator/v10"
)

// Default poll intervals.
const (
	DefaultOrderPollInterval = 5 * time.Second
	DefaultBoardPollInterval = 10 * time.Second
)

// PollIntervals configures WatchOrder and WatchBoard. Zero values use the defaults.
type PollIntervals struct {
	Order time.Duration
	Board time.Duration
}

// OrderService places, tracks and manages orders for the signed-in session.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	session    *Session
	notifier   Notifier
	validate   *validator.Validate
	intervals  PollIntervals
	submitting atomic.Bool
}

// NewOrderService creates a new OrderService. notifier may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, session *Session, notifier Notifier, intervals PollIntervals) *OrderService {
	if intervals.Order <= 0 {
		intervals.Order = DefaultOrderPollInterval
	}
	if intervals.Board <= 0 {
		intervals.Board = DefaultBoardPollInterval
	}
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &OrderService{
		orderRepo: orderRepo,
		session:   session,
		notifier:  notifier,
		validate:  validation.New(),
		intervals: intervals,
	}
}

// Submitting reports whether a submission is in flight.
func (s *OrderService) Submitting() bool {
	return s.submitting.Load()
}

// Submit places the cart as a new order for the session's table. The cart is
// cleared only when the backend accepted the order.
func (s *OrderService) Submit(ctx context.Context, cart *Cart, note string) (*models.Order, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	tableID := s.session.TableID()
	if tableID == "" {
		return nil, ErrTableNotSet
	}
	if !s.session.Authenticated() {
		return nil, ErrUnauthorized
	}
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInProgress
	}
	defer s.submitting.Store(false)

	lines := cart.Lines()
	req := models.OrderRequest{
		TableID:      tableID,
		Items:        lines,
		TotalAmount:  models.SumItems(lines),
		CustomerNote: strings.TrimSpace(note),
	}
	if err := s.validate.Struct(req); err != nil {
		if msgs := validation.Messages(err); msgs != nil {
			return nil, FieldErrors(msgs)
		}
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	order, err := s.orderRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	s.notifier.Notify(newNotification(KindPlaced, LevelSuccess, order.ID, "Order placed!"))
	return order, nil
}

// Get fetches one order.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	if !s.session.Authenticated() {
		return nil, ErrUnauthorized
	}
	return s.orderRepo.GetByID(ctx, id)
}

// List fetches every order visible to the session.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	if !s.session.Authenticated() {
		return nil, ErrUnauthorized
	}
	return s.orderRepo.GetAll(ctx)
}

// ActiveOrder returns the first order that is still pending, preparing or
// ready, or nil when there is none.
func (s *OrderService) ActiveOrder(ctx context.Context) (*models.Order, error) {
	orders, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Status.IsActive() {
			return &orders[i], nil
		}
	}
	return nil, nil
}

// NextActions returns the statuses an owner can move an order in status to.
func (s *OrderService) NextActions(status models.OrderStatus) []models.OrderStatus {
	return status.NextActions()
}

// Transition asks the backend to move an order to status. The backend decides
// whether the move is legal; nothing is checked locally beyond the role.
func (s *OrderService) Transition(ctx context.Context, id string, status models.OrderStatus) error {
	if err := s.requireOwner(); err != nil {
		return err
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.notifier.Notify(newNotification(KindUpdated, LevelSuccess, id, ownerMessage(status)))
	return nil
}

// Delete removes a served or cancelled order. Orders in any other status are
// rejected without contacting the backend.
func (s *OrderService) Delete(ctx context.Context, order models.Order) error {
	if err := s.requireOwner(); err != nil {
		return err
	}
	if !order.Status.IsHistory() {
		return fmt.Errorf("%w: order %s is %s", ErrNotDeletable, order.ID, order.Status)
	}
	if err := s.orderRepo.Delete(ctx, order.ID); err != nil {
		return err
	}
	s.notifier.Notify(newNotification(KindDeleted, LevelSuccess, order.ID, "Order deleted"))
	return nil
}

// WatchOrder polls one order until the handle is stopped or ctx ends.
// onUpdate receives every applied fetch; transitions that matter to the
// customer are also sent to the notifier. Fetch errors are logged and retried
// on the next tick.
func (s *OrderService) WatchOrder(ctx context.Context, id string, onUpdate func(models.Order)) *Handle {
	rec := &Reconciler{}
	return poll(ctx, s.intervals.Order, func(ctx context.Context, seq uint64) {
		order, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("Polling order %s failed, retrying: %v", id, err)
			}
			return
		}
		outcome, t := rec.Observe(seq, order.Status)
		if outcome == OutcomeStale {
			return
		}
		if onUpdate != nil {
			onUpdate(*order)
		}
		if outcome == OutcomeChanged {
			if n, ok := transitionNotification(id, t); ok {
				s.notifier.Notify(n)
			}
		}
	})
}

// WatchBoard polls every order for the owner dashboard.
func (s *OrderService) WatchBoard(ctx context.Context, onUpdate func(*Board)) *Handle {
	var applied atomic.Uint64
	return poll(ctx, s.intervals.Board, func(ctx context.Context, seq uint64) {
		orders, err := s.orderRepo.GetAll(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("Polling orders failed, retrying: %v", err)
			}
			return
		}
		for {
			last := applied.Load()
			if seq <= last {
				return
			}
			if applied.CompareAndSwap(last, seq) {
				break
			}
		}
		if onUpdate != nil {
			onUpdate(NewBoard(orders, time.Now()))
		}
	})
}

func (s *OrderService) requireOwner() error {
	if !s.session.Authenticated() {
		return ErrUnauthorized
	}
	if !s.session.IsOwner() {
		return ErrOwnerOnly
	}
	return nil
}
