// README: Identifier type shared by accounts, orders, incidents and invoices.
package types

type ID string

func (id ID) String() string {
	return string(id)
}
