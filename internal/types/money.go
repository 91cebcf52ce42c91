// README: Common money value object used across modules (amounts in minor units).
package types

import "fmt"

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// EUR builds a Money value from euro cents.
func EUR(cents int64) Money {
	return Money{Amount: cents, Currency: "EUR"}
}

func (m Money) String() string {
	sign := ""
	// uint64 holds the magnitude of math.MinInt64, which int64 negation cannot.
	amount := uint64(m.Amount)
	if m.Amount < 0 {
		sign = "-"
		amount = -amount
	}
	symbol := m.Currency
	if m.Currency == "EUR" || m.Currency == "" {
		symbol = "€"
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, amount/100, amount%100)
}
