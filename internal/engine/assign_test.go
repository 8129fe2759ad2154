package engine

import (
	"reflect"
	"testing"

	"bank-matching-service/internal/models"
)

func TestResolveAutomatic_ThresholdGate(t *testing.T) {
	e := New(nil) // MinConfidence 80

	set := &BestMatchSet{
		TransactionOrder: []string{"T1", "T2"},
		Best: map[string]BestMatch{
			"T1": {EntryID: "E1", Score: 100},
			"T2": {EntryID: "E2", Score: 66.7},
		},
	}

	result := e.ResolveAutomatic(set)

	if result.Count != 1 {
		t.Fatalf("accepted = %d, want 1", result.Count)
	}
	if result.Accepted[0].TransactionID != "T1" {
		t.Errorf("accepted = %s, want T1", result.Accepted[0].TransactionID)
	}
	if !reflect.DeepEqual(result.NeedsReview, []string{"T2"}) {
		t.Errorf("needs review = %v, want [T2]", result.NeedsReview)
	}
}

func TestResolveAutomatic_FirstClaimWins(t *testing.T) {
	e := New(nil)

	set := &BestMatchSet{
		TransactionOrder: []string{"T1", "T2", "T3"},
		Best: map[string]BestMatch{
			"T1": {EntryID: "E1", Score: 100},
			"T2": {EntryID: "E1", Score: 100},
			"T3": {EntryID: "E2", Score: 100},
		},
	}

	result := e.ResolveAutomatic(set)

	if result.Count != 2 {
		t.Fatalf("accepted = %d, want 2", result.Count)
	}
	if result.Accepted[0].TransactionID != "T1" || result.Accepted[0].EntryID != "E1" {
		t.Errorf("first accepted = %s -> %s, want T1 -> E1",
			result.Accepted[0].TransactionID, result.Accepted[0].EntryID)
	}
	if !reflect.DeepEqual(result.NeedsReview, []string{"T2"}) {
		t.Errorf("needs review = %v, want [T2]", result.NeedsReview)
	}
}

func TestResolveAutomatic_AssignmentsUnstamped(t *testing.T) {
	e := New(nil)

	set := &BestMatchSet{
		TransactionOrder: []string{"T1"},
		Best:             map[string]BestMatch{"T1": {EntryID: "E1", Score: 100}},
	}

	result := e.ResolveAutomatic(set)
	a := result.Accepted[0]

	// Finalization (ID, timestamp) belongs to the caller so that repeated
	// pipeline runs stay byte-identical
	if a.ID != "" {
		t.Errorf("ID = %q, want empty", a.ID)
	}
	if !a.MatchedAt.IsZero() {
		t.Errorf("MatchedAt = %v, want zero", a.MatchedAt)
	}
	if a.Method != models.MethodAutomatic {
		t.Errorf("Method = %s, want %s", a.Method, models.MethodAutomatic)
	}
}

func TestResolveAutomatic_NilSet(t *testing.T) {
	e := New(nil)
	result := e.ResolveAutomatic(nil)
	if result.Count != 0 || result.Accepted != nil {
		t.Errorf("nil set should produce an empty result, got %+v", result)
	}
}

func TestSuggestForTransaction_RankedAndCapped(t *testing.T) {
	config := DefaultMatchingConfig()
	config.MaxSuggestions = 3
	e := New(config)

	candidates := e.ScoreCandidates([]*models.MatchCandidate{
		{TransactionID: "T1", EntryID: "E3", DateDifferenceDays: 3},
		{TransactionID: "T1", EntryID: "E1", DateDifferenceDays: 0},
		{TransactionID: "T1", EntryID: "E4", DateDifferenceDays: 2, HasReferenceMatch: true},
		{TransactionID: "T1", EntryID: "E2", DateDifferenceDays: 1},
		{TransactionID: "T1", EntryID: "E5", DateDifferenceDays: 2},
		{TransactionID: "T2", EntryID: "E9", DateDifferenceDays: 0},
	})

	got := e.SuggestForTransaction("T1", candidates)

	// Reference match first, then by date proximity, capped at three
	want := []string{"E4", "E1", "E2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions = %v, want %v", got, want)
	}
}

func TestSuggestForTransaction_UnknownTransaction(t *testing.T) {
	e := New(nil)
	if got := e.SuggestForTransaction("missing", nil); len(got) != 0 {
		t.Errorf("suggestions = %v, want empty", got)
	}
}

func TestSuggestAll(t *testing.T) {
	e := New(nil)

	candidates := e.ScoreCandidates([]*models.MatchCandidate{
		{TransactionID: "T1", EntryID: "E2", DateDifferenceDays: 1},
		{TransactionID: "T1", EntryID: "E1", DateDifferenceDays: 0},
		{TransactionID: "T2", EntryID: "E3", DateDifferenceDays: 0},
	})

	got := e.SuggestAll(candidates)

	if len(got) != 2 {
		t.Fatalf("suggestion map size = %d, want 2", len(got))
	}
	if !reflect.DeepEqual(got["T1"], []string{"E1", "E2"}) {
		t.Errorf("T1 suggestions = %v, want [E1 E2]", got["T1"])
	}
	if !reflect.DeepEqual(got["T2"], []string{"E3"}) {
		t.Errorf("T2 suggestions = %v, want [E3]", got["T2"])
	}
}
