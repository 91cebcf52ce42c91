// README: Monthly rate for each product/plan pair.
package pricing

import "carebot/internal/types"

type Rate struct {
	Product types.Product `json:"product"`
	Plan    types.Plan    `json:"plan"`
	Monthly types.Money   `json:"monthly"`
	Feature string        `json:"feature"`
}

func (r Rate) Label() string {
	return string(r.Plan) + " (" + r.Monthly.String() + "/mo, " + r.Feature + ")"
}
