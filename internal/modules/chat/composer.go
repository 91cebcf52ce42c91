// README: Prompt composition for the generative layer (persona, account context, order flow, formatting).
package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"carebot/internal/modules/account"
	"carebot/internal/modules/intent"
	"carebot/internal/modules/pricing"
	"carebot/internal/types"
)

type Composer struct {
	brand   string
	catalog *pricing.Service
}

// NewComposer returns a Composer for brand. catalog may be nil, in which case
// the order-flow block lists names without prices.
func NewComposer(brand string, catalog *pricing.Service) *Composer {
	if brand == "" {
		brand = "Odido"
	}
	return &Composer{brand: brand, catalog: catalog}
}

// Compose builds the single instruction block sent to the generator.
func (c *Composer) Compose(acct *account.Account, message string, r intent.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a helpful and friendly customer care assistant for %s, a Dutch telecom company. ", c.brand)
	b.WriteString("Help the customer with questions about their telecom services in clear, simple language. ")
	b.WriteString("Be empathetic, especially when the customer seems confused. ")
	b.WriteString("Answer only what was asked, avoid technical jargon, and say so when you do not know something.\n\n")

	b.WriteString("Customer data:\n")
	fmt.Fprintf(&b, "- Name: %s\n", acct.Name)
	fmt.Fprintf(&b, "- Phone Number: %s\n", acct.PhoneNumber)
	fmt.Fprintf(&b, "- Orders: %s\n", toJSON(acct.Orders))
	fmt.Fprintf(&b, "- Incidents: %s\n", toJSON(acct.Incidents))
	fmt.Fprintf(&b, "- Invoices: %s\n\n", toJSON(acct.Invoices))

	fmt.Fprintf(&b, "Customer message: %q\n\n", message)

	if r.Kind == intent.KindOrderIntent {
		c.writeOrderFlow(&b, r)
	}

	b.WriteString(formattingRules)
	return b.String()
}

func (c *Composer) writeOrderFlow(b *strings.Builder, r intent.Result) {
	b.WriteString("The customer wants to place an order. If the product or plan is unclear, ask a short clarifying question. ")
	b.WriteString("Once both are known, offer the confirmation with exactly this template:\n")
	fmt.Fprintf(b, "\"To confirm your order for [PRODUCT] with the [PLAN] plan, please reply with '%s'\"\n",
		intent.ConfirmationPhrase("[PRODUCT]", "[PLAN]"))

	if r.Product != "" || r.Plan != "" {
		b.WriteString("Detected so far:")
		if r.Product != "" {
			fmt.Fprintf(b, " product=%s", r.Product)
		}
		if r.Plan != "" {
			fmt.Fprintf(b, " plan=%s", r.Plan)
		}
		b.WriteString("\n")
	}

	b.WriteString("Available products: " + joinProducts(types.Products) + "\n")
	b.WriteString("Available plans: " + joinPlans(types.Plans) + "\n")
	if c.catalog != nil {
		b.WriteString("Monthly prices:\n")
		for _, p := range types.Products {
			rates := c.catalog.ForProduct(p)
			if len(rates) == 0 {
				continue
			}
			labels := make([]string, 0, len(rates))
			for _, rate := range rates {
				labels = append(labels, rate.Label())
			}
			fmt.Fprintf(b, "- %s: %s\n", p, strings.Join(labels, "; "))
		}
	}
	b.WriteString("\n")
}

const formattingRules = `FORMATTING RULES (VERY IMPORTANT):
1. Use compact markdown with minimal spacing.
2. Bold with **text**, bullets as "- Item", numbered lists as "1. Item".
3. No blank lines before or after lists; attach lists directly to the preceding paragraph.
4. Use a single line break between paragraphs.
5. After the greeting, continue on a new line.

Good:
Here's an explanation of your invoice:
- Monthly fee: €25.00
- **Total amount**: €30.00
If you need anything else, let me know.

IMPORTANT:
- Credits or adjustments on an invoice are usually there because a plan was stopped early; say so explicitly.
- Stay conversational and friendly but compact. Use **bold** for important information and format amounts clearly.
`

func toJSON(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(out)
}

func joinProducts(ps []types.Product) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func joinPlans(ps []types.Plan) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
