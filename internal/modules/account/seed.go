// README: Sample accounts served when no database is configured.
package account

import (
	"time"

	"carebot/internal/types"
)

// SampleAccounts returns a small fixed set of demo accounts.
func SampleAccounts() []Account {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
	}
	return []Account{
		{
			ID:          "user1",
			Name:        "Emma de Vries",
			PhoneNumber: "+31 6 12345678",
			Orders: []Order{
				{ID: "ORD-1001", ProductName: types.ProductSIM, Plan: types.PlanBasic, Status: "Cancelled", InServiceDate: day(2024, time.January, 15)},
				{ID: "ORD-1002", ProductName: types.ProductSIM, Plan: types.PlanUnlimited, Status: StatusActive, InServiceDate: day(2024, time.June, 1)},
			},
			Incidents: []Incident{
				{ID: "INC-201", Category: "Network", Description: "No 4G coverage at home in Utrecht", Status: "Open", OpenedAt: day(2024, time.July, 3)},
				{ID: "INC-202", Category: "Billing", Description: "Charged twice for June", Status: "Completed", OpenedAt: day(2024, time.July, 5)},
			},
			Invoices: []Invoice{
				{
					ID: "INV-301", Period: "2024-06", Amount: types.EUR(2500), Status: "Paid",
					Lines: []InvoiceLine{
						{Description: "Unlimited plan (June)", Amount: types.EUR(3000)},
						{Description: "Credit: Basic plan stopped early", Amount: types.EUR(-500)},
					},
				},
			},
		},
		{
			ID:          "user2",
			Name:        "Daan Jansen",
			PhoneNumber: "+31 6 87654321",
			Orders: []Order{
				{ID: "ORD-2001", ProductName: types.ProductInternet, Plan: types.PlanPremium, Status: StatusActive, InServiceDate: day(2023, time.November, 20)},
				{ID: "ORD-2002", ProductName: types.ProductTV, Plan: types.PlanFamily, Status: "Pending", InServiceDate: day(2024, time.August, 1)},
			},
			Incidents: []Incident{
				{ID: "INC-211", Category: "Hardware", Description: "Router keeps rebooting", Status: "Open", OpenedAt: day(2024, time.May, 12)},
				{ID: "INC-212", Category: "Network", Description: "Slow broadband in the evening", Status: "Pending", OpenedAt: day(2024, time.May, 20)},
				{ID: "INC-213", Category: "Network", Description: "Connection drops during calls", Status: "Open", OpenedAt: day(2024, time.June, 2)},
			},
			Invoices: []Invoice{
				{ID: "INV-311", Period: "2024-05", Amount: types.EUR(4500), Status: "Paid"},
				{ID: "INV-312", Period: "2024-06", Amount: types.EUR(4500), Status: "Open"},
			},
		},
	}
}
