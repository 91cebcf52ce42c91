// README: Closed product and plan vocabularies offered through chat and the order API.
package types

import "strings"

type Product string

const (
	ProductSIM      Product = "SIM"
	ProductPhone    Product = "Phone"
	ProductInternet Product = "Internet"
	ProductTV       Product = "TV"
)

type Plan string

const (
	PlanBasic     Plan = "Basic"
	PlanPremium   Plan = "Premium"
	PlanUnlimited Plan = "Unlimited"
	PlanFamily    Plan = "Family"
)

// Products lists every product in declaration order.
var Products = []Product{ProductSIM, ProductPhone, ProductInternet, ProductTV}

// Plans lists every plan in declaration order.
var Plans = []Plan{PlanBasic, PlanPremium, PlanUnlimited, PlanFamily}

// ParseProduct resolves an exact product name, ignoring case and surrounding space.
func ParseProduct(s string) (Product, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Products {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

// ParsePlan resolves an exact plan name, ignoring case and surrounding space.
func ParsePlan(s string) (Plan, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Plans {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}
