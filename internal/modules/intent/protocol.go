// README: Order confirmation protocol (proposed -> confirmed -> committed) driven by message text.
package intent

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"carebot/internal/types"
)

const confirmMarker = "confirm order"

var yesTokenRe = regexp.MustCompile(`(?i)\byes\b`)

var ErrInvalidStage = errors.New("invalid confirmation stage")

type Stage string

const (
	StageNone      Stage = "none"
	StageProposed  Stage = "proposed"
	StageConfirmed Stage = "confirmed"
	StageCommitted Stage = "committed"
	StageDiscarded Stage = "discarded"
)

// AllowedTransitions represents the pending-order flow as code. Committed and
// discarded are terminal.
var AllowedTransitions = map[Stage][]Stage{
	StageNone:      {StageProposed, StageConfirmed},
	StageProposed:  {StageConfirmed, StageDiscarded},
	StageConfirmed: {StageCommitted},
}

func CanTransition(from, to Stage) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// PendingOrder is a product/plan pair awaiting confirmation. It lives for one
// message only; the full state round-trips through the confirmation phrase.
type PendingOrder struct {
	Product types.Product
	Plan    types.Plan
	Stage   Stage
	OrderID types.ID
}

// IsConfirmation reports whether text follows the confirmation grammar: the
// marker "confirm order" plus the token "yes", both case-insensitive.
func IsConfirmation(text string) bool {
	return strings.Contains(strings.ToLower(text), confirmMarker) && yesTokenRe.MatchString(text)
}

// ConfirmationPhrase renders the exact text the user is asked to echo back.
func ConfirmationPhrase(product types.Product, plan types.Plan) string {
	return fmt.Sprintf("Confirm order: Yes, product: %s, plan: %s", product, plan)
}

// Advance derives the pending order carried by a single classified message.
// OrderIntent proposes, ConfirmOrder confirms, and anything else returns nil:
// a proposal that is not confirmed by the next message is simply dropped.
func Advance(r Result) *PendingOrder {
	switch r.Kind {
	case KindOrderIntent:
		return &PendingOrder{Product: r.Product, Plan: r.Plan, Stage: StageProposed}
	case KindConfirmOrder:
		if r.Product == "" || r.Plan == "" {
			return nil
		}
		return &PendingOrder{Product: r.Product, Plan: r.Plan, Stage: StageConfirmed}
	default:
		return nil
	}
}

// Committable reports whether p may be handed to order commit.
func (p *PendingOrder) Committable() bool {
	return p != nil && p.Stage == StageConfirmed && p.Product != "" && p.Plan != ""
}

// Commit records the committed order ID. Only confirmed orders can be committed.
func (p *PendingOrder) Commit(orderID types.ID) error {
	if !p.Committable() || !CanTransition(p.Stage, StageCommitted) {
		return ErrInvalidStage
	}
	if orderID == "" {
		return fmt.Errorf("%w: empty order id", ErrInvalidStage)
	}
	p.Stage = StageCommitted
	p.OrderID = orderID
	return nil
}
