package engine

import (
	"math"
	"strings"
	"testing"

	"bank-matching-service/internal/models"

	"github.com/shopspring/decimal"
)

func TestScoreCandidates_DateProximity(t *testing.T) {
	e := New(nil) // three day window

	tests := []struct {
		name     string
		days     int
		refMatch bool
		expected float64
	}{
		{"same day", 0, false, 100.0},
		{"one day", 1, false, 100.0 * 2.0 / 3.0},
		{"two days", 2, false, 100.0 / 3.0},
		{"window edge", 3, false, 0.0},
		{"reference overrides date", 3, true, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := []*models.MatchCandidate{{
				TransactionID:      "T1",
				EntryID:            "E1",
				DateDifferenceDays: tt.days,
				HasReferenceMatch:  tt.refMatch,
			}}

			scored := e.ScoreCandidates(candidates)
			got := scored[0].ConfidenceScore
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("score = %.3f, want %.3f", got, tt.expected)
			}
		})
	}
}

func TestScoreCandidates_DoesNotMutateInput(t *testing.T) {
	e := New(nil)

	original := &models.MatchCandidate{TransactionID: "T1", EntryID: "E1"}
	e.ScoreCandidates([]*models.MatchCandidate{original})

	if original.ConfidenceScore != 0 || original.Reasons != nil {
		t.Errorf("input candidate was mutated: %+v", original)
	}
}

func TestScoreCandidates_Reasons(t *testing.T) {
	e := New(nil)

	candidates := []*models.MatchCandidate{
		{
			TransactionID:      "T1",
			EntryID:            "E1",
			DateDifferenceDays: 0,
			HasReferenceMatch:  true,
		},
		{
			TransactionID:      "T2",
			EntryID:            "E2",
			DateDifferenceDays: 2,
			AmountDifference:   decimal.NewFromFloat(0.01),
		},
	}

	scored := e.ScoreCandidates(candidates)

	first := strings.Join(scored[0].Reasons, "|")
	if !strings.Contains(first, "exact amount") {
		t.Errorf("reasons %q should mention exact amount", first)
	}
	if !strings.Contains(first, "same date") {
		t.Errorf("reasons %q should mention same date", first)
	}
	if !strings.Contains(first, "reference match") {
		t.Errorf("reasons %q should mention reference match", first)
	}

	second := strings.Join(scored[1].Reasons, "|")
	if !strings.Contains(second, "within tolerance") {
		t.Errorf("reasons %q should mention tolerance", second)
	}
	if !strings.Contains(second, "2 days apart") {
		t.Errorf("reasons %q should mention date distance", second)
	}
}

func TestBestPerTransaction_ReferencePrecedence(t *testing.T) {
	e := New(nil)

	// E-far is three days away but reference-matched; E-near is same-day.
	// With reference precedence the reference hit must win despite the
	// lower implied date score.
	candidates := e.ScoreCandidates([]*models.MatchCandidate{
		{TransactionID: "T1", EntryID: "E-near", DateDifferenceDays: 0},
		{TransactionID: "T1", EntryID: "E-far", DateDifferenceDays: 3, HasReferenceMatch: true},
	})

	set := e.BestPerTransaction(candidates)
	if set.Best["T1"].EntryID != "E-far" {
		t.Errorf("best = %s, want E-far (reference precedence)", set.Best["T1"].EntryID)
	}
}

func TestBestPerTransaction_PrecedenceDisabled(t *testing.T) {
	config := DefaultMatchingConfig()
	config.ReferencePrecedence = false
	e := New(config)

	candidates := e.ScoreCandidates([]*models.MatchCandidate{
		{TransactionID: "T1", EntryID: "E-near", DateDifferenceDays: 0},
		{TransactionID: "T1", EntryID: "E-far", DateDifferenceDays: 3, HasReferenceMatch: true},
	})

	// Both score 100; the date difference breaks the tie
	set := e.BestPerTransaction(candidates)
	if set.Best["T1"].EntryID != "E-near" {
		t.Errorf("best = %s, want E-near (pure score ranking)", set.Best["T1"].EntryID)
	}
}

func TestBestPerTransaction_CloserDateWins(t *testing.T) {
	e := New(nil)

	candidates := e.ScoreCandidates([]*models.MatchCandidate{
		{TransactionID: "T2", EntryID: "E-two-days", DateDifferenceDays: 2},
		{TransactionID: "T2", EntryID: "E-one-day", DateDifferenceDays: 1},
	})

	set := e.BestPerTransaction(candidates)
	if set.Best["T2"].EntryID != "E-one-day" {
		t.Errorf("best = %s, want E-one-day", set.Best["T2"].EntryID)
	}
}

func TestBestPerTransaction_EntryIDBreaksTies(t *testing.T) {
	e := New(nil)

	candidates := e.ScoreCandidates([]*models.MatchCandidate{
		{TransactionID: "T1", EntryID: "E9", DateDifferenceDays: 1},
		{TransactionID: "T1", EntryID: "E2", DateDifferenceDays: 1},
	})

	set := e.BestPerTransaction(candidates)
	if set.Best["T1"].EntryID != "E2" {
		t.Errorf("best = %s, want E2 (lexicographic tie break)", set.Best["T1"].EntryID)
	}
}

func TestBestPerTransaction_PreservesInputOrder(t *testing.T) {
	e := New(nil)

	candidates := e.ScoreCandidates([]*models.MatchCandidate{
		{TransactionID: "T3", EntryID: "E1", DateDifferenceDays: 0},
		{TransactionID: "T1", EntryID: "E2", DateDifferenceDays: 0},
		{TransactionID: "T2", EntryID: "E3", DateDifferenceDays: 0},
		{TransactionID: "T1", EntryID: "E4", DateDifferenceDays: 1},
	})

	set := e.BestPerTransaction(candidates)
	want := []string{"T3", "T1", "T2"}
	if len(set.TransactionOrder) != len(want) {
		t.Fatalf("order length = %d, want %d", len(set.TransactionOrder), len(want))
	}
	for i, txID := range want {
		if set.TransactionOrder[i] != txID {
			t.Errorf("order[%d] = %s, want %s", i, set.TransactionOrder[i], txID)
		}
	}
}

func TestScoreCandidates_ZeroWindow(t *testing.T) {
	config := DefaultMatchingConfig()
	config.DateWindowDays = 0
	e := New(config)

	scored := e.ScoreCandidates([]*models.MatchCandidate{
		{TransactionID: "T1", EntryID: "E1", DateDifferenceDays: 0},
	})
	if scored[0].ConfidenceScore != 100 {
		t.Errorf("score = %.1f, want 100 for same-day match in zero window", scored[0].ConfidenceScore)
	}
}
