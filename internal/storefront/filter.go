package storefront

import (
	"strings"

	"souq/internal/domain/companies"
	"souq/internal/domain/products"
	"souq/internal/i18n"

	"golang.org/x/text/cases"
)

// Instant search runs over lists that are already loaded, the way the
// dashboard tables filter as the admin types.

func matches(fold cases.Caser, term string, texts ...i18n.Text) bool {
	for _, t := range texts {
		for _, v := range t.Values() {
			if strings.Contains(fold.String(v), term) {
				return true
			}
		}
	}
	return false
}

// FilterCompanies keeps companies whose name, description or button text
// contains q in any locale, ignoring case. An empty q keeps everything.
func FilterCompanies(list []*companies.Company, q string) []*companies.Company {
	fold := cases.Fold() // stateful, one per call
	term := fold.String(strings.TrimSpace(q))
	if term == "" {
		return list
	}
	out := make([]*companies.Company, 0, len(list))
	for _, c := range list {
		if matches(fold, term, c.Name, c.Description, c.ButtonText) {
			out = append(out, c)
		}
	}
	return out
}

// FilterProducts keeps products whose name or description contains q in any
// locale, ignoring case.
func FilterProducts(list []*products.Product, q string) []*products.Product {
	fold := cases.Fold() // stateful, one per call
	term := fold.String(strings.TrimSpace(q))
	if term == "" {
		return list
	}
	out := make([]*products.Product, 0, len(list))
	for _, p := range list {
		if matches(fold, term, p.Name, p.Description) {
			out = append(out, p)
		}
	}
	return out
}
