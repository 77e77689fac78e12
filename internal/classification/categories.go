package classification

import "github.com/cashwise/flowcast/internal/model"

// CategoryPatterns pairs a business category with the regex fragments that
// identify it. Order across the table is significant: the first category with
// any matching pattern wins, so the table is a priority list, not a set.
type CategoryPatterns struct {
	Category model.BusinessCategory
	Patterns []string
}

// DefaultCategoryTable returns the built-in category table tuned for
// e-commerce businesses. Patterns are matched case-insensitively against the
// combined display and raw vendor name.
func DefaultCategoryTable() []CategoryPatterns {
	return []CategoryPatterns{
		{
			Category: model.CategoryRevenueChannels,
			Patterns: []string{
				`shopify.*payment`, `amazon.*payment`, `amazon.*marketplace`, `stripe`,
				`paypal.*transfer`, `square`, `etsy`, `ebay`, `faire`, `wholesale`,
			},
		},
		{
			Category: model.CategoryInventory,
			Patterns: []string{
				`inventory.*transfer`, `supplier`, `manufacturer`, `wholesale.*purchase`,
				`alibaba`, `dhgate`, `bright.*ideas`, `supply.*chain`,
			},
		},
		{
			Category: model.CategoryCreditCards,
			Patterns: []string{
				`chase.*credit`, `american.*express`, `amex`, `capital.*one`, `visa`,
				`mastercard`, `discover`, `credit.*card`,
			},
		},
		{
			Category: model.CategoryPeople,
			Patterns: []string{
				`gusto`, `adp`, `payroll`, `owner.*pay`, `salary`, `wages`,
				`contractor`, `freelance`,
			},
		},
		{
			Category: model.CategoryRecurringServices,
			Patterns: []string{
				`quickbooks`, `shopify.*subscription`, `amazon.*aws`, `google.*ads`,
				`facebook.*ads`, `software`, `saas`, `subscription`,
			},
		},
		{
			Category: model.CategoryTaxPayments,
			Patterns: []string{
				`sales.*tax`, `state.*tax`, `irs`, `revenue`, `dept.*tax`,
				`michigan.*tax`, `ohio.*tax`, `florida.*tax`,
			},
		},
		{
			Category: model.CategoryFinancialServices,
			Patterns: []string{
				`wire.*fee`, `bank.*fee`, `wise`, `transfer.*fee`, `jpmorgan.*chase`,
			},
		},
	}
}
