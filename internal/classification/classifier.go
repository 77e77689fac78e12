// Package classification maps raw vendor strings to business categories and
// canonical display names using an ordered regex table.
package classification

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cashwise/flowcast/internal/model"
)

// compiledCategory holds one category's compiled pattern list.
type compiledCategory struct {
	category model.BusinessCategory
	patterns []*regexp.Regexp
}

// Classifier assigns business categories via first-match-wins evaluation of
// an ordered category table. It is safe for concurrent use after creation.
type Classifier struct {
	table []compiledCategory
}

// NewClassifier compiles the given category table, preserving its order.
func NewClassifier(table []CategoryPatterns) (*Classifier, error) {
	compiled := make([]compiledCategory, 0, len(table))
	for _, entry := range table {
		cc := compiledCategory{category: entry.Category}
		for _, p := range entry.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("failed to compile pattern %q for category %s: %w",
					p, entry.Category, err)
			}
			cc.patterns = append(cc.patterns, re)
		}
		compiled = append(compiled, cc)
	}
	return &Classifier{table: compiled}, nil
}

// NewDefaultClassifier builds a classifier from the built-in category table.
func NewDefaultClassifier() (*Classifier, error) {
	return NewClassifier(DefaultCategoryTable())
}

// Classify returns the business category for a vendor. Both the display name
// and the raw vendor name are consulted. No match is not an error: the vendor
// falls back to CategoryOther.
func (c *Classifier) Classify(displayName, vendorName string) model.BusinessCategory {
	searchText := strings.ToLower(displayName + " " + vendorName)

	for _, entry := range c.table {
		for _, re := range entry.patterns {
			if re.MatchString(searchText) {
				return entry.category
			}
		}
	}

	return model.CategoryOther
}

// matchesCategory reports whether the text matches any pattern of the given
// category. Used by the normalizer, which needs category membership without
// priority semantics.
func (c *Classifier) matchesCategory(text string, category model.BusinessCategory) bool {
	for _, entry := range c.table {
		if entry.category != category {
			continue
		}
		for _, re := range entry.patterns {
			if re.MatchString(text) {
				return true
			}
		}
	}
	return false
}
