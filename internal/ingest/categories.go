package ingest

import "strings"

// chaseCategories maps Chase's native category labels to canonical ones.
// Unmatched labels pass through unchanged; Chase exports carry a real
// category column, so an unknown label is still better than "Other".
var chaseCategories = map[string]string{
	"Food & Drink":       "Food & Dining",
	"Groceries":          "Groceries",
	"Shopping":           "Shopping",
	"Gas":                "Gas & Fuel",
	"Travel":             "Travel",
	"Entertainment":      "Entertainment",
	"Bills & Utilities":  "Bills & Utilities",
	"Health & Wellness":  "Health & Medical",
	"Personal":           "Personal Care",
	"Education":          "Education",
	"Fees & Adjustments": "Fees & Adjustments",
}

// mapChaseCategory translates a Chase category, passing unknowns through.
func mapChaseCategory(chaseCategory string) string {
	if mapped, ok := chaseCategories[chaseCategory]; ok {
		return mapped
	}
	return chaseCategory
}

// CategoryRule pairs a predicate over (merchant, transaction type) with the
// category it assigns. Rules are evaluated in order, first match wins, so
// each rule is independently testable and new merchants are a one-line
// addition.
type CategoryRule struct {
	Name     string
	Matches  func(merchant, txnType string) bool
	Category string
}

// merchantContains builds a predicate matching a substring of the merchant
// name.
func merchantContains(sub string) func(merchant, txnType string) bool {
	return func(merchant, _ string) bool {
		return strings.Contains(merchant, sub)
	}
}

// typeContains builds a predicate matching a substring of the source
// transaction type.
func typeContains(sub string) func(merchant, txnType string) bool {
	return func(_, txnType string) bool {
		return strings.Contains(txnType, sub)
	}
}

func both(a, b func(merchant, txnType string) bool) func(merchant, txnType string) bool {
	return func(merchant, txnType string) bool {
		return a(merchant, txnType) && b(merchant, txnType)
	}
}

// merchantRules categorizes transactions from sources without a native
// category column (PayPal, credit union) by merchant-name heuristics.
var merchantRules = []CategoryRule{
	// Music and streaming subscriptions
	{"spotify", merchantContains("spotify"), "Entertainment"},
	{"apple subscription", both(merchantContains("apple"), typeContains("preapproved")), "Entertainment"},
	{"netflix", merchantContains("netflix"), "Entertainment"},
	{"hulu", merchantContains("hulu"), "Entertainment"},
	{"bandcamp", merchantContains("bandcamp"), "Entertainment"},
	{"patreon", merchantContains("patreon"), "Entertainment"},

	// Gaming
	{"valve", merchantContains("valve"), "Entertainment"},
	{"steam", merchantContains("steam"), "Entertainment"},
	{"nintendo", merchantContains("nintendo"), "Entertainment"},
	{"microsoft subscription", both(merchantContains("microsoft"), typeContains("preapproved")), "Entertainment"},
	{"green man gaming", merchantContains("green man gaming"), "Entertainment"},

	// Shopping
	{"target", merchantContains("target"), "Shopping"},
	{"amazon", merchantContains("amazon"), "Shopping"},

	// Travel
	{"southwest", merchantContains("southwest"), "Travel"},
	{"airline", merchantContains("airline"), "Travel"},
	{"hotel", merchantContains("hotel"), "Travel"},
	{"airbnb", merchantContains("airbnb"), "Travel"},

	// Tickets and events
	{"axs", merchantContains("axs"), "Entertainment"},
	{"ticketmaster", merchantContains("ticketmaster"), "Entertainment"},

	// Government and fees
	{"colorado interactive", merchantContains("colorado interactive"), "Bills & Utilities"},

	// Fallbacks keyed on the source transaction type
	{"preapproved payment", typeContains("preapproved payment"), "Subscriptions"},
	{"express checkout", typeContains("express checkout"), "Shopping"},
}

// categorizeMerchant runs the ordered rule list over a merchant name and
// source transaction type, falling back to "Other".
func categorizeMerchant(merchant, txnType string) string {
	m := strings.ToLower(merchant)
	tt := strings.ToLower(txnType)
	for _, rule := range merchantRules {
		if rule.Matches(m, tt) {
			return rule.Category
		}
	}
	return "Other"
}
