// Package engine implements the reconciliation matching pipeline: candidate
// generation under hard amount/date filters, confidence scoring, and
// conflict-free assignment of bank transactions to accounting entries.
//
// The pipeline is a sequence of pure functions over snapshots supplied by the
// caller. Nothing is cached between runs and nothing is persisted: the only
// output crossing the boundary is a set of MatchAssignment values, which the
// caller is responsible for writing back.
//
// Example usage:
//
//	eng := engine.New(engine.DefaultMatchingConfig())
//	gen := eng.GenerateCandidates(transactions, entries)
//	scored := eng.ScoreCandidates(gen.Candidates)
//	best := eng.BestPerTransaction(scored)
//	result := eng.ResolveAutomatic(best)
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MatchingConfig holds the tunable parameters of the matching pipeline.
//
// AmountTolerance and DateWindowDays are hard filters: a pair outside either
// bound never becomes a candidate. MinConfidence gates automatic acceptance
// only; below-threshold matches are still exposed as suggestions.
type MatchingConfig struct {
	// AmountTolerance is the maximum absolute difference between the
	// transaction amount and the entry amount, in currency units
	AmountTolerance decimal.Decimal `json:"amount_tolerance"`

	// DateWindowDays is the maximum difference in calendar days between the
	// transaction date and the entry date
	DateWindowDays int `json:"date_window_days"`

	// MinConfidence is the minimum confidence score (0-100) for automatic
	// acceptance of a provisional best match
	MinConfidence float64 `json:"min_confidence"`

	// ReferencePrecedence makes a reference-matched candidate always rank
	// above non-reference candidates for the same transaction, regardless of
	// date distance. When false, candidates rank purely by score then date.
	ReferencePrecedence bool `json:"reference_precedence"`

	// MaxSuggestions limits the ranked suggestion list per transaction in
	// manual-review mode. Zero means no limit.
	MaxSuggestions int `json:"max_suggestions"`
}

// DefaultMatchingConfig returns a configuration with the standard tolerances:
// one cent of amount tolerance, a three day date window, and an 80 point
// automatic acceptance threshold.
func DefaultMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		AmountTolerance:     decimal.NewFromFloat(0.01),
		DateWindowDays:      3,
		MinConfidence:       80.0,
		ReferencePrecedence: true,
		MaxSuggestions:      5,
	}
}

// StrictMatchingConfig returns a configuration for strict matching: exact
// amounts, a one day window, and a high acceptance threshold
func StrictMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		AmountTolerance:     decimal.Zero,
		DateWindowDays:      1,
		MinConfidence:       95.0,
		ReferencePrecedence: true,
		MaxSuggestions:      3,
	}
}

// RelaxedMatchingConfig returns a configuration for exploratory matching
func RelaxedMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		AmountTolerance:     decimal.NewFromFloat(0.05),
		DateWindowDays:      7,
		MinConfidence:       60.0,
		ReferencePrecedence: true,
		MaxSuggestions:      10,
	}
}

// Validate checks if the matching configuration is valid
func (mc *MatchingConfig) Validate() error {
	if mc.AmountTolerance.IsNegative() {
		return fmt.Errorf("amount tolerance cannot be negative: %s", mc.AmountTolerance.String())
	}

	if mc.DateWindowDays < 0 {
		return fmt.Errorf("date window days cannot be negative: %d", mc.DateWindowDays)
	}

	if mc.MinConfidence < 0.0 || mc.MinConfidence > 100.0 {
		return fmt.Errorf("minimum confidence must be between 0.0 and 100.0: %f", mc.MinConfidence)
	}

	if mc.MaxSuggestions < 0 {
		return fmt.Errorf("max suggestions cannot be negative: %d", mc.MaxSuggestions)
	}

	return nil
}

// Clone creates a copy of the matching configuration
func (mc *MatchingConfig) Clone() *MatchingConfig {
	if mc == nil {
		return nil
	}

	clone := *mc
	return &clone
}

// String returns a human-readable description of the configuration
func (mc *MatchingConfig) String() string {
	return fmt.Sprintf("MatchingConfig{AmountTolerance: %s, DateWindow: %d days, MinConfidence: %.1f, ReferencePrecedence: %t}",
		mc.AmountTolerance.String(), mc.DateWindowDays, mc.MinConfidence, mc.ReferencePrecedence)
}

// Engine runs the matching pipeline with a fixed configuration. It carries no
// data between invocations; callers supply fresh snapshots per run.
type Engine struct {
	config *MatchingConfig
}

// New creates a matching engine with the specified configuration. A nil
// configuration falls back to the defaults.
func New(config *MatchingConfig) *Engine {
	if config == nil {
		config = DefaultMatchingConfig()
	}

	return &Engine{config: config.Clone()}
}

// Config returns a copy of the engine configuration
func (e *Engine) Config() *MatchingConfig {
	return e.config.Clone()
}
