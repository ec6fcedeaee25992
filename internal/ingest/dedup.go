package ingest

import (
	"strings"

	"budgeteer/internal/core"
)

// descriptionSimilarityThreshold is the minimum token-overlap fraction for
// two descriptions to be considered the same merchant.
const descriptionSimilarityThreshold = 0.3

// DedupResult partitions import candidates into duplicates of existing
// transactions and genuinely new ones.
type DedupResult struct {
	Duplicates []core.Transaction
	Unique     []core.Transaction
}

// DetectDuplicates cross-references candidates against the existing set.
// Two transactions are taken as the same real-world event when their dates,
// amounts, and types are exactly equal AND either the descriptions share
// enough significant words, or the PayPal cross-account heuristic fires (a
// bank feed and a PayPal feed recording the same purchase). The first
// existing match wins; no best-match search.
//
// The matching is deliberately permissive: a near-match is more likely a
// double import than two identical purchases on the same day, so we prefer
// flagging it over double-counting. That is a trade-off, not a bug.
func DetectDuplicates(candidates, existing []core.Transaction) DedupResult {
	var result DedupResult

	for _, c := range candidates {
		duplicate := false
		for _, e := range existing {
			if sameEvent(c, e) {
				duplicate = true
				break
			}
		}
		if duplicate {
			result.Duplicates = append(result.Duplicates, c)
		} else {
			result.Unique = append(result.Unique, c)
		}
	}

	return result
}

func sameEvent(a, b core.Transaction) bool {
	if !a.Date.Equal(b.Date.Time) || a.Amount != b.Amount || a.Type != b.Type {
		return false
	}
	if descriptionSimilarity(a.Description, b.Description) >= descriptionSimilarityThreshold {
		return true
	}
	return crossAccountPayPal(a, b) || crossAccountPayPal(b, a)
}

// descriptionSimilarity returns the fraction of a's words longer than three
// characters that also appear among b's words, case-insensitive. Short words
// ("the", "of", store numbers) carry no signal and are ignored.
func descriptionSimilarity(a, b string) float64 {
	aWords := significantWords(a)
	if len(aWords) == 0 {
		return 0
	}
	bWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(b)) {
		bWords[w] = true
	}

	matched := 0
	for _, w := range aWords {
		if bWords[w] {
			matched++
		}
	}
	return float64(matched) / float64(len(aWords))
}

func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}

// crossAccountPayPal fires when one transaction came through a PayPal
// account and the other's description mentions PayPal: the bank feed records
// "PAYPAL *MERCHANT" for the same purchase the PayPal feed records under the
// merchant's name. A special case that does not generalize beyond PayPal;
// kept as heuristic debt rather than a dedup principle.
func crossAccountPayPal(viaPayPal, viaBank core.Transaction) bool {
	return strings.Contains(strings.ToLower(viaPayPal.Account), "paypal") &&
		strings.Contains(strings.ToLower(viaBank.Description), "paypal")
}
