// README: Keyword tables and case-insensitive matchers behind intent classification.
package intent

import (
	"strings"

	"carebot/internal/types"
)

// OrderKeywords signal that the user wants to start a new purchase.
var OrderKeywords = []string{"place order", "buy", "purchase", "subscribe", "sign up", "get a new"}

// QueryKeywords signal a question about existing orders. They outrank OrderKeywords.
var QueryKeywords = []string{
	"recent order", "old orders", "order history", "previous orders", "all orders",
	"past orders", "show", "latest", "last", "previous", "order details",
}

type productRule struct {
	product  types.Product
	keywords []string
}

type planRule struct {
	plan     types.Plan
	keywords []string
}

// Evaluated top to bottom; the first category with a hit wins.
var productRules = []productRule{
	{types.ProductSIM, []string{"sim", "esim"}},
	{types.ProductPhone, []string{"phone", "iphone", "samsung"}},
	{types.ProductInternet, []string{"internet", "wifi", "broadband"}},
	{types.ProductTV, []string{"tv", "television"}},
}

var planRules = []planRule{
	{types.PlanBasic, []string{"basic"}},
	{types.PlanPremium, []string{"premium"}},
	{types.PlanUnlimited, []string{"unlimited"}},
	{types.PlanFamily, []string{"family"}},
}

// MatchAny reports whether text contains any of the keywords, ignoring case.
func MatchAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// MatchProduct returns the first product whose keywords occur in text.
func MatchProduct(text string) (types.Product, bool) {
	for _, r := range productRules {
		if MatchAny(text, r.keywords) {
			return r.product, true
		}
	}
	return "", false
}

// MatchPlan returns the first plan whose keywords occur in text.
func MatchPlan(text string) (types.Plan, bool) {
	for _, r := range planRules {
		if MatchAny(text, r.keywords) {
			return r.plan, true
		}
	}
	return "", false
}
