package engine

import (
	"sort"

	"bank-matching-service/internal/models"
)

// AssignmentResult is the output of automatic conflict resolution
type AssignmentResult struct {
	// Accepted holds the conflict-free assignments, in transaction order.
	// No transaction or entry ID appears twice.
	Accepted []*models.MatchAssignment

	// Count is the number of accepted assignments
	Count int

	// NeedsReview lists transactions whose provisional match was not
	// accepted: either below the confidence threshold or beaten to its entry
	// by an earlier transaction. They stay pending for manual review.
	NeedsReview []string
}

// ResolveAutomatic turns a provisional best-match set into a conflict-free
// assignment set.
//
// Transactions are processed in the order recorded in the set (candidate
// input order), which makes the outcome deterministic: when two transactions
// claim the same entry, the first one in input order wins and the other is
// left for manual review. Matches below MinConfidence are never accepted
// automatically.
func (e *Engine) ResolveAutomatic(set *BestMatchSet) *AssignmentResult {
	result := &AssignmentResult{}
	if set == nil {
		return result
	}

	consumedEntries := make(map[string]bool)

	for _, txID := range set.TransactionOrder {
		best, exists := set.Best[txID]
		if !exists {
			continue
		}

		if best.Score < e.config.MinConfidence {
			result.NeedsReview = append(result.NeedsReview, txID)
			continue
		}

		if consumedEntries[best.EntryID] {
			result.NeedsReview = append(result.NeedsReview, txID)
			continue
		}

		consumedEntries[best.EntryID] = true
		result.Accepted = append(result.Accepted, &models.MatchAssignment{
			TransactionID:   txID,
			EntryID:         best.EntryID,
			ConfidenceScore: best.Score,
			Method:          models.MethodAutomatic,
			Reasons:         best.Reasons,
		})
	}

	result.Count = len(result.Accepted)
	return result
}

// SuggestForTransaction returns the ranked entry IDs suggested for one
// transaction, best first, from the full candidate list. It performs no
// conflict resolution: the operator resolves conflicts by accepting one
// suggestion per transaction.
func (e *Engine) SuggestForTransaction(transactionID string, candidates []*models.MatchCandidate) []string {
	var own []*models.MatchCandidate
	for _, c := range candidates {
		if c.TransactionID == transactionID {
			own = append(own, c)
		}
	}

	sort.SliceStable(own, func(i, j int) bool {
		return e.ranksAbove(own[i], own[j])
	})

	if e.config.MaxSuggestions > 0 && len(own) > e.config.MaxSuggestions {
		own = own[:e.config.MaxSuggestions]
	}

	suggestions := make([]string, len(own))
	for i, c := range own {
		suggestions[i] = c.EntryID
	}

	return suggestions
}

// SuggestAll returns the ranked suggestion lists for every transaction
// present in the candidate list, keyed by transaction ID. Order within each
// list follows the same ranking as SuggestForTransaction.
func (e *Engine) SuggestAll(candidates []*models.MatchCandidate) map[string][]string {
	byTransaction := make(map[string][]*models.MatchCandidate)
	var order []string
	for _, c := range candidates {
		if _, seen := byTransaction[c.TransactionID]; !seen {
			order = append(order, c.TransactionID)
		}
		byTransaction[c.TransactionID] = append(byTransaction[c.TransactionID], c)
	}

	suggestions := make(map[string][]string, len(order))
	for _, txID := range order {
		own := byTransaction[txID]
		sort.SliceStable(own, func(i, j int) bool {
			return e.ranksAbove(own[i], own[j])
		})

		if e.config.MaxSuggestions > 0 && len(own) > e.config.MaxSuggestions {
			own = own[:e.config.MaxSuggestions]
		}

		ids := make([]string, len(own))
		for i, c := range own {
			ids[i] = c.EntryID
		}
		suggestions[txID] = ids
	}

	return suggestions
}
