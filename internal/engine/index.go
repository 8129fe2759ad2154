package engine

import (
	"sort"

	"bank-matching-service/internal/models"

	"github.com/shopspring/decimal"
)

// EntryIndex buckets unreconciled entries by matchable amount so candidate
// generation can skip entries that cannot pass the amount filter. It is built
// per run and discarded with it.
type EntryIndex struct {
	// Entries holds the indexed entries in input order
	Entries []*models.AccountingEntry

	// byAmount provides sorted buckets for range lookups
	byAmount []*amountBucket
}

// amountBucket groups entries sharing the same matchable amount. Positions
// record each entry's index in the input slice so range lookups can restore
// input order.
type amountBucket struct {
	amount    decimal.Decimal
	entries   []*models.AccountingEntry
	positions []int
}

// NewEntryIndex builds an index over the supplied entries
func NewEntryIndex(entries []*models.AccountingEntry) *EntryIndex {
	index := &EntryIndex{Entries: entries}

	buckets := make(map[string]*amountBucket)
	for i, entry := range entries {
		key := entry.Amount().String()
		bucket, exists := buckets[key]
		if !exists {
			bucket = &amountBucket{amount: entry.Amount()}
			buckets[key] = bucket
		}
		bucket.entries = append(bucket.entries, entry)
		bucket.positions = append(bucket.positions, i)
	}

	index.byAmount = make([]*amountBucket, 0, len(buckets))
	for _, bucket := range buckets {
		index.byAmount = append(index.byAmount, bucket)
	}

	sort.Slice(index.byAmount, func(i, j int) bool {
		return index.byAmount[i].amount.LessThan(index.byAmount[j].amount)
	})

	return index
}

// AmountRange returns the entries whose matchable amount lies in
// [minAmount, maxAmount], in input order
func (ix *EntryIndex) AmountRange(minAmount, maxAmount decimal.Decimal) []*models.AccountingEntry {
	start := sort.Search(len(ix.byAmount), func(i int) bool {
		return ix.byAmount[i].amount.GreaterThanOrEqual(minAmount)
	})

	type positioned struct {
		entry *models.AccountingEntry
		pos   int
	}

	var collected []positioned
	for i := start; i < len(ix.byAmount); i++ {
		bucket := ix.byAmount[i]
		if bucket.amount.GreaterThan(maxAmount) {
			break
		}
		for j, entry := range bucket.entries {
			collected = append(collected, positioned{entry: entry, pos: bucket.positions[j]})
		}
	}

	// Restore input order so candidate generation stays deterministic
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].pos < collected[j].pos
	})

	result := make([]*models.AccountingEntry, len(collected))
	for i, p := range collected {
		result[i] = p.entry
	}

	return result
}

// Candidates returns the entries within amount tolerance of the given bank
// amount, in input order
func (ix *EntryIndex) Candidates(bankAmount decimal.Decimal, tolerance decimal.Decimal) []*models.AccountingEntry {
	return ix.AmountRange(bankAmount.Sub(tolerance), bankAmount.Add(tolerance))
}

// Stats returns statistics about the index
func (ix *EntryIndex) Stats() IndexStats {
	return IndexStats{
		TotalEntries:  len(ix.Entries),
		UniqueAmounts: len(ix.byAmount),
	}
}

// IndexStats provides statistics about index composition
type IndexStats struct {
	TotalEntries  int
	UniqueAmounts int
}
