// README: Default product/plan catalogue.
package pricing

import "carebot/internal/types"

var defaultRates = []Rate{
	{types.ProductSIM, types.PlanBasic, types.EUR(1000), "5GB data"},
	{types.ProductSIM, types.PlanPremium, types.EUR(2000), "20GB data"},
	{types.ProductSIM, types.PlanUnlimited, types.EUR(3000), "Unlimited data"},
	{types.ProductSIM, types.PlanFamily, types.EUR(4500), "50GB shared"},

	{types.ProductPhone, types.PlanBasic, types.EUR(2500), "5GB data"},
	{types.ProductPhone, types.PlanPremium, types.EUR(3500), "20GB data"},
	{types.ProductPhone, types.PlanUnlimited, types.EUR(4500), "Unlimited data"},
	{types.ProductPhone, types.PlanFamily, types.EUR(6000), "50GB shared"},

	{types.ProductInternet, types.PlanBasic, types.EUR(3000), "50 Mbps"},
	{types.ProductInternet, types.PlanPremium, types.EUR(4500), "300 Mbps"},
	{types.ProductInternet, types.PlanUnlimited, types.EUR(6000), "1 Gbps"},
	{types.ProductInternet, types.PlanFamily, types.EUR(7000), "1 Gbps + mesh"},

	{types.ProductTV, types.PlanBasic, types.EUR(1500), "30+ channels"},
	{types.ProductTV, types.PlanPremium, types.EUR(2500), "100+ channels"},
	{types.ProductTV, types.PlanUnlimited, types.EUR(4000), "150+ sports"},
	{types.ProductTV, types.PlanFamily, types.EUR(5000), "200+ channels"},
}
