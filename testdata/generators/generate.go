// Command generate produces paired bank transaction and accounting entry CSV
// files for exercising the matching pipeline. Each dataset mixes clean
// matches, near misses and noise so that every outcome class (accepted,
// needs review, unmatched, skipped) appears in a run.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

type scenario struct {
	name        string
	description string
	generate    func(*rand.Rand, int) ([][]string, [][]string)
}

var scenarios = []scenario{
	{
		name:        "clean",
		description: "every transaction has exactly one same-day entry with a matching reference",
		generate:    generateClean,
	},
	{
		name:        "mixed",
		description: "matches, date drift, amount mismatches, conflicts and malformed rows",
		generate:    generateMixed,
	},
	{
		name:        "conflicts",
		description: "several transactions competing for the same entries",
		generate:    generateConflicts,
	},
}

var transactionHeader = []string{"id", "date", "amount", "description", "reference", "status"}
var entryHeader = []string{"id", "date", "total_debit", "total_credit", "description", "reference_number", "source_reference", "reconciled"}

func main() {
	var (
		name      = flag.String("scenario", "mixed", "Scenario to generate: clean, mixed, conflicts, or 'all'")
		count     = flag.Int("count", 50, "Approximate number of transactions per dataset")
		seed      = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
		outputDir = flag.String("output-dir", "../generated", "Output directory for generated files")
		list      = flag.Bool("list", false, "List available scenarios")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available scenarios:")
		for _, s := range scenarios {
			fmt.Printf("  %-10s %s\n", s.name, s.description)
		}
		return
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	for _, s := range scenarios {
		if *name != "all" && s.name != *name {
			continue
		}

		rng := rand.New(rand.NewSource(*seed))
		transactions, entries := s.generate(rng, *count)

		txPath := filepath.Join(*outputDir, fmt.Sprintf("%s_transactions.csv", s.name))
		entryPath := filepath.Join(*outputDir, fmt.Sprintf("%s_entries.csv", s.name))

		if err := writeCSV(txPath, transactionHeader, transactions); err != nil {
			log.Fatalf("failed to write %s: %v", txPath, err)
		}
		if err := writeCSV(entryPath, entryHeader, entries); err != nil {
			log.Fatalf("failed to write %s: %v", entryPath, err)
		}

		fmt.Printf("Generated %s: %d transactions, %d entries (seed %d)\n",
			s.name, len(transactions), len(entries), *seed)
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

var descriptions = []string{
	"CARD PAYMENT SUPPLIER",
	"SEPA TRANSFER",
	"DIRECT DEBIT UTILITIES",
	"WIRE CLIENT SETTLEMENT",
	"SUBSCRIPTION SOFTWARE",
	"OFFICE SUPPLIES",
}

func randomAmount(rng *rand.Rand) decimal.Decimal {
	cents := rng.Int63n(500000) + 100
	return decimal.New(cents, -2)
}

func randomDate(rng *rand.Rand) time.Time {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, rng.Intn(28))
}

func txRow(id string, date time.Time, amount decimal.Decimal, description, reference, status string) []string {
	return []string{id, date.Format("2006-01-02"), amount.String(), description, reference, status}
}

func entryRow(id string, date time.Time, debit, credit decimal.Decimal, description, referenceNumber, sourceReference string, reconciled bool) []string {
	rec := "false"
	if reconciled {
		rec = "true"
	}
	return []string{id, date.Format("2006-01-02"), debit.String(), credit.String(), description, referenceNumber, sourceReference, rec}
}

// entryFor mirrors a bank movement on the ledger side: money leaving the bank
// account appears as a debit on the expense entry.
func entryFor(id string, date time.Time, txAmount decimal.Decimal, description, reference string) []string {
	if txAmount.IsNegative() {
		return entryRow(id, date, txAmount.Abs(), decimal.Zero, description, reference, "", false)
	}
	return entryRow(id, date, decimal.Zero, txAmount, description, reference, "", false)
}

func generateClean(rng *rand.Rand, count int) ([][]string, [][]string) {
	var transactions, entries [][]string

	for i := 0; i < count; i++ {
		id := i + 1
		date := randomDate(rng)
		amount := randomAmount(rng).Neg()
		reference := fmt.Sprintf("INV-%04d", id)
		description := descriptions[rng.Intn(len(descriptions))]

		transactions = append(transactions, txRow(
			fmt.Sprintf("TX%04d", id), date, amount, description+" "+reference, reference, "pending"))
		entries = append(entries, entryFor(
			fmt.Sprintf("E%04d", id), date, amount, description, reference))
	}

	return transactions, entries
}

func generateMixed(rng *rand.Rand, count int) ([][]string, [][]string) {
	var transactions, entries [][]string

	for i := 0; i < count; i++ {
		id := i + 1
		date := randomDate(rng)
		amount := randomAmount(rng).Neg()
		reference := fmt.Sprintf("INV-%04d", id)
		description := descriptions[rng.Intn(len(descriptions))]
		txID := fmt.Sprintf("TX%04d", id)
		entryID := fmt.Sprintf("E%04d", id)

		switch i % 10 {
		case 0, 1, 2, 3:
			// Clean same-day reference match
			transactions = append(transactions, txRow(txID, date, amount, description+" "+reference, reference, "pending"))
			entries = append(entries, entryFor(entryID, date, amount, description, reference))
		case 4, 5:
			// Entry booked a couple of days later, no shared reference
			drift := rng.Intn(3) + 1
			transactions = append(transactions, txRow(txID, date, amount, description, "", "pending"))
			entries = append(entries, entryFor(entryID, date.AddDate(0, 0, drift), amount, description, ""))
		case 6:
			// Amount off by more than any sensible tolerance
			off := amount.Add(decimal.New(int64(rng.Intn(900)+100), -2))
			transactions = append(transactions, txRow(txID, date, amount, description, "", "pending"))
			entries = append(entries, entryFor(entryID, date, off, description, ""))
		case 7:
			// Transaction with no ledger counterpart
			transactions = append(transactions, txRow(txID, date, amount, description, "", "pending"))
		case 8:
			// Entry with no bank counterpart
			entries = append(entries, entryFor(entryID, date, amount, description, reference))
		case 9:
			// Malformed row the parser must skip
			transactions = append(transactions, []string{txID, "not-a-date", amount.String(), description, "", "pending"})
			entries = append(entries, entryFor(entryID, date, amount, description, ""))
		}
	}

	return transactions, entries
}

func generateConflicts(rng *rand.Rand, count int) ([][]string, [][]string) {
	var transactions, entries [][]string

	groups := count / 3
	if groups < 1 {
		groups = 1
	}

	for g := 0; g < groups; g++ {
		date := randomDate(rng)
		amount := randomAmount(rng).Neg()
		description := descriptions[rng.Intn(len(descriptions))]

		// Three identical transactions, two candidate entries: one
		// transaction per group is left without an entry to claim.
		for i := 0; i < 3; i++ {
			transactions = append(transactions, txRow(
				fmt.Sprintf("TX%04d-%d", g+1, i+1), date, amount, description, "", "pending"))
		}
		for i := 0; i < 2; i++ {
			entries = append(entries, entryFor(
				fmt.Sprintf("E%04d-%d", g+1, i+1), date.AddDate(0, 0, i), amount, description, ""))
		}
	}

	return transactions, entries
}
