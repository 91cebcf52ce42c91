// README: Account service; PlaceOrder is the single write path for committed orders.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"carebot/internal/types"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrPersistence     = errors.New("order could not be saved")
	ErrBadRequest      = errors.New("bad request")
)

// Repository is the account data collaborator.
type Repository interface {
	Get(ctx context.Context, id types.ID) (*Account, error)
	// AddOrder persists o under the account, returning ErrAccountNotFound when
	// the account does not exist.
	AddOrder(ctx context.Context, accountID types.ID, o *Order) error
}

type Service struct {
	store Repository
	now   func() time.Time
}

func NewService(store Repository) *Service {
	return &Service{store: store, now: time.Now}
}

type PlaceOrderCommand struct {
	AccountID types.ID
	Product   types.Product
	Plan      types.Plan
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Account, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, ErrAccountNotFound
	}
	return s.store.Get(ctx, id)
}

// PlaceOrder commits an active order starting today and returns its ID.
func (s *Service) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (types.ID, error) {
	if cmd.AccountID == "" {
		return "", ErrBadRequest
	}
	product, ok := types.ParseProduct(string(cmd.Product))
	if !ok {
		return "", fmt.Errorf("%w: unknown product %q", ErrBadRequest, cmd.Product)
	}
	plan, ok := types.ParsePlan(string(cmd.Plan))
	if !ok {
		return "", fmt.Errorf("%w: unknown plan %q", ErrBadRequest, cmd.Plan)
	}

	o := &Order{
		ID:            newOrderID(),
		ProductName:   product,
		Plan:          plan,
		Status:        StatusActive,
		InServiceDate: s.now(),
	}
	if err := s.store.AddOrder(ctx, cmd.AccountID, o); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return o.ID, nil
}

func newOrderID() types.ID {
	return types.ID("ORD-" + strings.ToUpper(uuid.New().String()[:8]))
}
