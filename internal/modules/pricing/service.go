// README: Pricing service answers catalogue lookups for chat prompts and the catalogue API.
package pricing

import (
	"errors"

	"carebot/internal/types"
)

var ErrUnknownRate = errors.New("no rate for product/plan")

type Service struct {
	rates []Rate
}

// NewService returns a Service over rates, or over the default catalogue when rates is nil.
func NewService(rates []Rate) *Service {
	if rates == nil {
		rates = defaultRates
	}
	cp := make([]Rate, len(rates))
	copy(cp, rates)
	return &Service{rates: cp}
}

func (s *Service) Quote(product types.Product, plan types.Plan) (Rate, error) {
	for _, r := range s.rates {
		if r.Product == product && r.Plan == plan {
			return r, nil
		}
	}
	return Rate{}, ErrUnknownRate
}

// Rates returns a copy of the catalogue in declaration order.
func (s *Service) Rates() []Rate {
	out := make([]Rate, len(s.rates))
	copy(out, s.rates)
	return out
}

// ForProduct returns the rates offered for one product.
func (s *Service) ForProduct(product types.Product) []Rate {
	var out []Rate
	for _, r := range s.rates {
		if r.Product == product {
			out = append(out, r)
		}
	}
	return out
}
