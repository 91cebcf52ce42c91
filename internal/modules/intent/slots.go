// README: Product/plan slot extraction from free text and from confirmation phrases.
package intent

import (
	"regexp"
	"strings"

	"carebot/internal/types"
)

// Applied when a confirmation phrase leaves a slot unresolved.
const (
	DefaultProduct = types.ProductSIM
	DefaultPlan    = types.PlanUnlimited
)

var (
	productFieldRe = regexp.MustCompile(`(?i)product:\s*([^,]+)`)
	planFieldRe    = regexp.MustCompile(`(?i)plan:\s*([^,]+)`)
)

// Slots holds the structured values pulled out of one message.
// An empty Product or Plan means the slot was not resolved.
type Slots struct {
	Product types.Product
	Plan    types.Plan

	// Set when a confirmation phrase fell back to DefaultProduct / DefaultPlan.
	ProductDefaulted bool
	PlanDefaulted    bool
}

func (s Slots) Complete() bool {
	return s.Product != "" && s.Plan != ""
}

// ExtractSlots pulls product and plan out of text. Confirmation phrases are read
// field by field and always come back complete; any other text gets best-effort
// keyword extraction and never guesses.
func ExtractSlots(text string) Slots {
	if IsConfirmation(text) {
		return extractConfirmation(text)
	}
	return extractKeywords(text)
}

func extractKeywords(text string) Slots {
	var s Slots
	if p, ok := MatchProduct(text); ok {
		s.Product = p
	}
	if p, ok := MatchPlan(text); ok {
		s.Plan = p
	}
	return s
}

func extractConfirmation(text string) Slots {
	var s Slots
	if v, ok := captureField(productFieldRe, text); ok {
		if p, ok := MatchProduct(v); ok {
			s.Product = p
		}
	}
	if v, ok := captureField(planFieldRe, text); ok {
		if p, ok := MatchPlan(v); ok {
			s.Plan = p
		}
	}
	if s.Product == "" {
		s.Product = DefaultProduct
		s.ProductDefaulted = true
	}
	if s.Plan == "" {
		s.Plan = DefaultPlan
		s.PlanDefaulted = true
	}
	return s
}

func captureField(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}
