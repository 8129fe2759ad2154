package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestValidateFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "valid.csv")
	if err := os.WriteFile(validFile, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name        string
		filePath    string
		expectError bool
	}{
		{"valid file", validFile, false},
		{"empty path", "", true},
		{"non-existent file", "/non/existent/file.csv", true},
		{"directory instead of file", tmpDir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFileExists(tt.filePath, "test file")

			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateMatchFlags(t *testing.T) {
	tmpDir := t.TempDir()
	txFile := filepath.Join(tmpDir, "transactions.csv")
	entryFile := filepath.Join(tmpDir, "entries.csv")

	if err := os.WriteFile(txFile, []byte("id,date,amount\nT1,2024-03-15,-10.00"), 0644); err != nil {
		t.Fatalf("failed to create transactions file: %v", err)
	}
	if err := os.WriteFile(entryFile, []byte("id,date,total_debit\nE1,2024-03-15,10.00"), 0644); err != nil {
		t.Fatalf("failed to create entries file: %v", err)
	}

	setFlags := func(overrides map[string]interface{}) {
		viper.Reset()
		defaults := map[string]interface{}{
			"transactions-file": txFile,
			"entries-file":      entryFile,
			"output-format":     "console",
			"output-file":       "",
			"start-date":        "",
			"end-date":          "",
			"amount-tolerance":  -1.0,
			"date-window":       -1,
			"min-confidence":    -1.0,
			"max-suggestions":   0,
			"suggest":           false,
		}
		for k, v := range defaults {
			viper.Set(k, v)
		}
		for k, v := range overrides {
			viper.Set(k, v)
		}
	}

	tests := []struct {
		name        string
		overrides   map[string]interface{}
		expectError bool
	}{
		{"valid defaults", nil, false},
		{"missing transactions file", map[string]interface{}{"transactions-file": ""}, true},
		{"missing entries file", map[string]interface{}{"entries-file": ""}, true},
		{"invalid output format", map[string]interface{}{"output-format": "xml"}, true},
		{"bad start date", map[string]interface{}{"start-date": "15-03-2024"}, true},
		{"inverted date range", map[string]interface{}{
			"start-date": "2024-03-20",
			"end-date":   "2024-03-15",
		}, true},
		{"confidence above range", map[string]interface{}{"min-confidence": 150.0}, true},
		{"valid date range", map[string]interface{}{
			"start-date": "2024-03-01",
			"end-date":   "2024-03-31",
		}, false},
		{"missing output directory", map[string]interface{}{
			"output-file": "/no/such/dir/report.json",
		}, true},
		{"json output", map[string]interface{}{"output-format": "json"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setFlags(tt.overrides)

			err := validateMatchFlags(matchCmd, nil)
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	viper.Reset()
}

func TestGetVersionString(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-03-15")
	if got := getVersionString(); got != "1.2.3" {
		t.Errorf("getVersionString() = %q, want %q", got, "1.2.3")
	}

	SetVersionInfo("dev", "abc123", "2024-03-15")
	got := getVersionString()
	if got != "dev (commit abc123, built 2024-03-15)" {
		t.Errorf("getVersionString() = %q, want the dev format", got)
	}
}
