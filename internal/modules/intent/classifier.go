// README: Rule-based intent classifier (ordered predicate -> result rules).
package intent

import "carebot/internal/types"

type Kind string

const (
	KindNone         Kind = "none"
	KindQuery        Kind = "query"
	KindOrderIntent  Kind = "order_intent"
	KindConfirmOrder Kind = "confirm_order"
)

// Result is the classification of a single message. It is recomputed for every
// message and never stored.
type Result struct {
	Kind    Kind          `json:"kind"`
	Product types.Product `json:"product,omitempty"`
	Plan    types.Plan    `json:"plan,omitempty"`

	// Carried from slot extraction for ConfirmOrder results.
	Defaulted bool `json:"-"`
}

type rule struct {
	name  string
	match func(text string) (Result, bool)
}

// rules are evaluated in order; the first match wins. Query detection must stay
// ahead of order detection.
var rules = []rule{
	{name: "confirm_order", match: matchConfirmOrder},
	{name: "query", match: matchQuery},
	{name: "order_intent", match: matchOrderIntent},
}

// Classify maps raw user text onto one intent. It never fails; text that matches
// nothing is KindNone.
func Classify(text string) Result {
	for _, r := range rules {
		if res, ok := r.match(text); ok {
			return res
		}
	}
	return Result{Kind: KindNone}
}

func matchConfirmOrder(text string) (Result, bool) {
	if !IsConfirmation(text) {
		return Result{}, false
	}
	s := extractConfirmation(text)
	return Result{
		Kind:      KindConfirmOrder,
		Product:   s.Product,
		Plan:      s.Plan,
		Defaulted: s.ProductDefaulted || s.PlanDefaulted,
	}, true
}

func matchQuery(text string) (Result, bool) {
	if !MatchAny(text, QueryKeywords) {
		return Result{}, false
	}
	return Result{Kind: KindQuery}, true
}

func matchOrderIntent(text string) (Result, bool) {
	if !MatchAny(text, OrderKeywords) {
		return Result{}, false
	}
	s := extractKeywords(text)
	return Result{Kind: KindOrderIntent, Product: s.Product, Plan: s.Plan}, true
}
