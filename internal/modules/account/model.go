// README: Account aggregate with its orders, incidents and invoices.
package account

import (
	"time"

	"carebot/internal/types"
)

const StatusActive = "Active"

type Account struct {
	ID          types.ID   `json:"id"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phoneNumber"`
	Orders      []Order    `json:"orders"`
	Incidents   []Incident `json:"incidents"`
	Invoices    []Invoice  `json:"invoices"`
}

// Order is a committed order. Once written it belongs to the account store.
type Order struct {
	ID            types.ID      `json:"orderId"`
	ProductName   types.Product `json:"productName"`
	Plan          types.Plan    `json:"plan"`
	Status        string        `json:"status"`
	InServiceDate time.Time     `json:"inServiceDate"`
}

type Incident struct {
	ID          types.ID  `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	OpenedAt    time.Time `json:"openedAt"`
}

type Invoice struct {
	ID     types.ID      `json:"id"`
	Period string        `json:"period"`
	Amount types.Money   `json:"amount"`
	Status string        `json:"status"`
	Lines  []InvoiceLine `json:"lines,omitempty"`
}

// InvoiceLine is one charge on an invoice; negative amounts are credits.
type InvoiceLine struct {
	Description string      `json:"description"`
	Amount      types.Money `json:"amount"`
}

// ActiveOrder returns the most recent active order, if any.
func (a *Account) ActiveOrder() (Order, bool) {
	for i := len(a.Orders) - 1; i >= 0; i-- {
		if a.Orders[i].Status == StatusActive {
			return a.Orders[i], true
		}
	}
	return Order{}, false
}

func (a *Account) clone() *Account {
	cp := *a
	cp.Orders = append([]Order(nil), a.Orders...)
	cp.Incidents = append([]Incident(nil), a.Incidents...)
	cp.Invoices = make([]Invoice, len(a.Invoices))
	for i, inv := range a.Invoices {
		inv.Lines = append([]InvoiceLine(nil), inv.Lines...)
		cp.Invoices[i] = inv
	}
	return &cp
}
