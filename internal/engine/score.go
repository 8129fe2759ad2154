package engine

import (
	"fmt"

	"bank-matching-service/internal/models"
)

// ScoreCandidates assigns a confidence score (0-100) and human-readable match
// reasons to each candidate. The input slice is not mutated; a new slice of
// scored copies is returned in the same order.
//
// The score is driven by date proximity:
//
//	score = 100 * max(0, 1 - dateDifferenceDays/dateWindowDays)
//
// Reference-matched candidates score a flat 100: an exact reference hit
// identifies the entry regardless of how late the bank posted it.
func (e *Engine) ScoreCandidates(candidates []*models.MatchCandidate) []*models.MatchCandidate {
	scored := make([]*models.MatchCandidate, 0, len(candidates))

	for _, c := range candidates {
		copied := *c
		copied.ConfidenceScore = e.scoreCandidate(c)
		copied.Reasons = e.matchReasons(&copied)
		scored = append(scored, &copied)
	}

	return scored
}

func (e *Engine) scoreCandidate(c *models.MatchCandidate) float64 {
	if c.HasReferenceMatch {
		return 100.0
	}

	if e.config.DateWindowDays == 0 {
		// Candidates only exist at zero days when the window is zero
		return 100.0
	}

	ratio := float64(c.DateDifferenceDays) / float64(e.config.DateWindowDays)
	score := 100.0 * (1.0 - ratio)
	if score < 0 {
		return 0
	}

	return score
}

// matchReasons builds the reason strings shown next to a suggestion in a
// review queue
func (e *Engine) matchReasons(c *models.MatchCandidate) []string {
	var reasons []string

	if c.AmountDifference.IsZero() {
		reasons = append(reasons, "exact amount")
	} else {
		reasons = append(reasons, fmt.Sprintf("amount within tolerance (%s off)", c.AmountDifference.String()))
	}

	switch {
	case c.DateDifferenceDays == 0:
		reasons = append(reasons, "same date")
	case c.DateDifferenceDays == 1:
		reasons = append(reasons, "1 day apart")
	default:
		reasons = append(reasons, fmt.Sprintf("%d days apart", c.DateDifferenceDays))
	}

	if c.HasReferenceMatch {
		reasons = append(reasons, "reference match")
	}

	if c.DescriptionSimilarity >= 70 {
		reasons = append(reasons, fmt.Sprintf("similar labels (%.0f%%)", c.DescriptionSimilarity))
	}

	return reasons
}

// BestMatch is the provisional best candidate for one transaction. It is not
// conflict-resolved: two transactions may provisionally claim the same entry
// until ResolveAutomatic runs.
type BestMatch struct {
	EntryID            string
	Score              float64
	HasReferenceMatch  bool
	DateDifferenceDays int
	Reasons            []string
}

// BestMatchSet maps each transaction to its provisional best match while
// preserving the order transactions first appeared in the candidate list.
// The explicit order is what keeps assignment resolution deterministic.
type BestMatchSet struct {
	TransactionOrder []string
	Best             map[string]BestMatch
}

// BestPerTransaction reduces scored candidates to at most one provisional
// best match per transaction.
//
// Ranking within a transaction: with ReferencePrecedence enabled (the
// default), a reference-matched candidate always beats a non-reference one,
// then the smaller date difference wins. Entry ID breaks remaining ties so
// the ranking is a total order.
func (e *Engine) BestPerTransaction(candidates []*models.MatchCandidate) *BestMatchSet {
	set := &BestMatchSet{Best: make(map[string]BestMatch)}

	bestCandidate := make(map[string]*models.MatchCandidate)
	for _, c := range candidates {
		current, exists := bestCandidate[c.TransactionID]
		if !exists {
			set.TransactionOrder = append(set.TransactionOrder, c.TransactionID)
			bestCandidate[c.TransactionID] = c
			continue
		}
		if e.ranksAbove(c, current) {
			bestCandidate[c.TransactionID] = c
		}
	}

	for _, txID := range set.TransactionOrder {
		c := bestCandidate[txID]
		set.Best[txID] = BestMatch{
			EntryID:            c.EntryID,
			Score:              c.ConfidenceScore,
			HasReferenceMatch:  c.HasReferenceMatch,
			DateDifferenceDays: c.DateDifferenceDays,
			Reasons:            c.Reasons,
		}
	}

	return set
}

// ranksAbove reports whether candidate a outranks candidate b for the same
// transaction
func (e *Engine) ranksAbove(a, b *models.MatchCandidate) bool {
	if e.config.ReferencePrecedence && a.HasReferenceMatch != b.HasReferenceMatch {
		return a.HasReferenceMatch
	}

	if a.ConfidenceScore != b.ConfidenceScore {
		return a.ConfidenceScore > b.ConfidenceScore
	}

	if a.DateDifferenceDays != b.DateDifferenceDays {
		return a.DateDifferenceDays < b.DateDifferenceDays
	}

	return a.EntryID < b.EntryID
}
