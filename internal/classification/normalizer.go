package classification

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cashwise/flowcast/internal/model"
)

var (
	prefixCleaner     = regexp.MustCompile(`(?i)^(CHECK\s+|ACH\s+|DEBIT\s+|CREDIT\s+)`)
	suffixCleaner     = regexp.MustCompile(`(?i)\s*(PAYMENT|PYMT|TRANSFER|TRNSFR)\s*$`)
	whitespaceCleaner = regexp.MustCompile(`\s+`)

	titleCaser = cases.Title(language.English)
)

// Normalize collapses a raw statement vendor string into a canonical display
// name: known keyword families map to fixed labels ("Amazon Revenue", "Chase
// Credit Card", ...) and anything unrecognized is cleaned of transaction-type
// prefixes and suffixes and title-cased.
func (c *Classifier) Normalize(vendorName string) string {
	name := strings.ToLower(vendorName)

	if c.matchesCategory(name, model.CategoryRevenueChannels) {
		switch {
		case strings.Contains(name, "shopify"):
			return "Shopify Revenue"
		case strings.Contains(name, "amazon"):
			return "Amazon Revenue"
		case strings.Contains(name, "stripe"):
			return "Stripe Revenue"
		case strings.Contains(name, "paypal"):
			return "PayPal Revenue"
		default:
			return "Other Revenue"
		}
	}

	if c.matchesCategory(name, model.CategoryCreditCards) {
		switch {
		case strings.Contains(name, "chase"):
			return "Chase Credit Card"
		case strings.Contains(name, "amex"), strings.Contains(name, "american express"):
			return "American Express"
		case strings.Contains(name, "capital one"):
			return "Capital One"
		default:
			return "Credit Card Payment"
		}
	}

	if c.matchesCategory(name, model.CategoryPeople) {
		switch {
		case strings.Contains(name, "gusto"):
			return "Gusto Payroll"
		case strings.Contains(name, "owner"):
			return "Owner Pay"
		default:
			return "Payroll"
		}
	}

	if c.matchesCategory(name, model.CategoryTaxPayments) {
		return "Sales Tax"
	}

	if c.matchesCategory(name, model.CategoryFinancialServices) {
		switch {
		case strings.Contains(name, "wise"):
			return "Wise Transfers"
		case strings.Contains(name, "jpmorgan"), strings.Contains(name, "chase"):
			return "Chase Bank"
		default:
			return "Financial Services"
		}
	}

	if c.matchesCategory(name, model.CategoryInventory) {
		return "Inventory/Suppliers"
	}

	// Internal account-to-account transfers.
	if strings.Contains(name, "sge") || strings.Contains(name, "mercury") {
		switch {
		case strings.Contains(name, "income"):
			return "Internal Revenue"
		case strings.Contains(name, "inventory"):
			return "Inventory Transfers"
		case strings.Contains(name, "opex"):
			return "OpEx Transfers"
		default:
			return "Internal Transfers"
		}
	}

	return CleanVendorName(vendorName)
}

// CleanVendorName strips common transaction-type prefixes and suffixes and
// title-cases what remains. If cleaning leaves nothing, the original string
// is returned unchanged.
func CleanVendorName(vendorName string) string {
	name := prefixCleaner.ReplaceAllString(vendorName, "")
	name = suffixCleaner.ReplaceAllString(name, "")
	name = strings.TrimSpace(whitespaceCleaner.ReplaceAllString(name, " "))

	if name == "" {
		return vendorName
	}
	return titleCaser.String(strings.ToLower(name))
}
