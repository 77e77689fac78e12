package model

import "time"

// BusinessCategory classifies a vendor by its role in the business.
type BusinessCategory string

const (
	// CategoryRevenueChannels covers sales platforms and payment processors.
	CategoryRevenueChannels BusinessCategory = "revenue_channels"
	// CategoryInventory covers suppliers and inventory purchases.
	CategoryInventory BusinessCategory = "inventory"
	// CategoryCreditCards covers credit card payments.
	CategoryCreditCards BusinessCategory = "credit_cards"
	// CategoryPeople covers payroll, contractors, and owner pay.
	CategoryPeople BusinessCategory = "people"
	// CategoryRecurringServices covers software and subscription spend.
	CategoryRecurringServices BusinessCategory = "recurring_services"
	// CategoryTaxPayments covers sales and income tax remittances.
	CategoryTaxPayments BusinessCategory = "tax_payments"
	// CategoryFinancialServices covers bank and transfer fees.
	CategoryFinancialServices BusinessCategory = "financial_services"
	// CategoryOther is the fallback when nothing matches.
	CategoryOther BusinessCategory = "other"
)

// Vendor maps a raw statement vendor string to its canonical display name and
// carries the forecast configuration written back after synthesis.
type Vendor struct {
	LastUpdated        time.Time
	ClientID           string
	VendorName         string
	DisplayName        string
	Category           BusinessCategory
	ForecastMethod     string
	ForecastFrequency  string
	ForecastNotes      string
	ForecastDay        *int
	ForecastAmount     *float64
	ForecastConfidence float64
	IsInventory        bool
}

// VendorGroup is the unit of analysis: all transactions sharing one display
// name, built fresh per run from current mapping and transaction snapshots.
type VendorGroup struct {
	DisplayName  string
	Category     BusinessCategory
	VendorNames  []string
	Transactions []Transaction
	IsInventory  bool
}
