package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dkovalev/subtrack/internal"
)

// runCLI runs the subtrack CLI with the given args and returns stdout.
// An empty config file is passed to avoid interference from the user's config.
func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	tmpDir := t.TempDir()
	emptyConfigPath := filepath.Join(tmpDir, "empty-config.yaml")
	if err := os.WriteFile(emptyConfigPath, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	fullArgs := append([]string{"--config", emptyConfigPath}, args...)
	cmd := exec.Command("go", append([]string{"run", "."}, fullArgs...)...)

	// Capture stdout only (stderr has go download messages and debug logs)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.Fatalf("CLI failed: %v\nStderr: %s", err, exitErr.Stderr)
		}
		t.Fatalf("CLI failed: %v", err)
	}
	return string(output)
}

// runCLIWithConfig runs the CLI with a custom config file and returns stdout.
func runCLIWithConfig(t *testing.T, configContent string, args ...string) string {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	fullArgs := append([]string{"--config", configPath}, args...)
	cmd := exec.Command("go", append([]string{"run", "."}, fullArgs...)...)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.Fatalf("CLI failed: %v\nStderr: %s", err, exitErr.Stderr)
		}
		t.Fatalf("CLI failed: %v", err)
	}
	return string(output)
}

// runCLIJSON runs the CLI with JSON output and parses the import result.
func runCLIJSON(t *testing.T, args ...string) internal.JSONImportOutput {
	t.Helper()
	fullArgs := append(args, "--output", "json")
	output := runCLI(t, fullArgs...)

	var result internal.JSONImportOutput
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

func writeStatement(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write statement: %v", err)
	}
	return path
}

func TestCLI_ImportTextStatement(t *testing.T) {
	path := writeStatement(t,
		"15.01.2026 SPOTIFY 199,00 ₽\n"+
			"15.02.2026 SPOTIFY 199,00 ₽\n"+
			"17.03.2026 SPOTIFY 199,00 ₽\n")

	result := runCLIJSON(t, path)

	if result.Layout != "lines" {
		t.Errorf("layout = %q, want lines", result.Layout)
	}
	if result.Transactions != 3 {
		t.Errorf("transactions = %d, want 3", result.Transactions)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}
	c := result.Candidates[0]
	if c.Name != "SPOTIFY" {
		t.Errorf("name = %q, want SPOTIFY", c.Name)
	}
	if c.InferredCycle != "monthly" || c.Confidence != "high" {
		t.Errorf("cycle/confidence = %s/%s, want monthly/high", c.InferredCycle, c.Confidence)
	}
	if c.NextBillingDate != "2026-04-17" {
		t.Errorf("next billing = %q, want 2026-04-17", c.NextBillingDate)
	}
}

func TestCLI_XLSXPrefixSyntax(t *testing.T) {
	xlsxPath := filepath.Join(t.TempDir(), "export.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Дата операции")
	f.SetCellValue(sheet, "B1", "Описание")
	f.SetCellValue(sheet, "C1", "Сумма")
	rows := [][]string{
		{"15.01.2026", "IVI", "-399,00 ₽"},
		{"15.02.2026", "IVI", "-399,00 ₽"},
	}
	for i, row := range rows {
		for j, cell := range row {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, i+2), cell)
		}
	}
	if err := f.SaveAs(xlsxPath); err != nil {
		t.Fatalf("failed to create test xlsx: %v", err)
	}

	result := runCLIJSON(t, "xlsx:"+xlsxPath)

	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}
	if result.Candidates[0].Name != "IVI" || result.Candidates[0].InferredCycle != "monthly" {
		t.Errorf("unexpected candidate: %+v", result.Candidates[0])
	}
}

func TestCLI_ApplyAndList(t *testing.T) {
	tmpDir := t.TempDir()
	storePath := filepath.Join(tmpDir, "subscriptions.json")
	path := writeStatement(t,
		"15.01.2026 SPOTIFY 199,00 ₽\n"+
			"15.02.2026 SPOTIFY 199,00 ₽\n")

	runCLI(t, path, "--apply", "--store", storePath, "--group", "family")

	listOutput := runCLI(t, "--list", "--store", storePath, "--output", "json")
	var listed internal.JSONStoreOutput
	if err := json.Unmarshal([]byte(listOutput), &listed); err != nil {
		t.Fatalf("failed to parse list output: %v\nOutput: %s", err, listOutput)
	}

	if len(listed.Subscriptions) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(listed.Subscriptions))
	}
	sub := listed.Subscriptions[0]
	if sub.Name != "SPOTIFY" || sub.Group != "family" {
		t.Errorf("unexpected subscription: %+v", sub)
	}
	if sub.ID == "" {
		t.Error("expected a generated id")
	}
	// Listing rolls overdue dates forward, so the due date is never in the past.
	if sub.NextBillingDate < internal.Today() {
		t.Errorf("next billing %q is in the past", sub.NextBillingDate)
	}

	// Re-applying the same statement must update in place, not duplicate.
	runCLI(t, path, "--apply", "--store", storePath)
	reListed := runCLI(t, "--list", "--store", storePath, "--output", "json")
	var again internal.JSONStoreOutput
	if err := json.Unmarshal([]byte(reListed), &again); err != nil {
		t.Fatalf("failed to parse list output: %v", err)
	}
	if len(again.Subscriptions) != 1 {
		t.Errorf("re-apply duplicated: %d subscriptions", len(again.Subscriptions))
	}
	if again.Subscriptions[0].ID != sub.ID {
		t.Errorf("re-apply changed id: %q vs %q", again.Subscriptions[0].ID, sub.ID)
	}
	if again.Subscriptions[0].Group != "family" {
		t.Errorf("re-apply lost user group: %q", again.Subscriptions[0].Group)
	}
}

func TestCLI_ConfigOverrides(t *testing.T) {
	path := writeStatement(t,
		"=== 15.01.2026 NETFLIX.COM 399,00 ₽ === 15.02.2026 NETFLIX.COM 399,00 ₽\n")

	output := runCLIWithConfig(t, "heuristics:\n  marker_phrase: \"===\"\n",
		"--output", "json", path)

	var result internal.JSONImportOutput
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	if result.Layout != "marker" {
		t.Errorf("layout = %q, want marker (custom phrase)", result.Layout)
	}
	if result.Transactions != 2 {
		t.Errorf("transactions = %d, want 2", result.Transactions)
	}
}

func TestCLI_BareInvocation(t *testing.T) {
	// Only the statement file, none of the optional flags. HOME is pointed at
	// an empty directory so no user config interferes.
	path := writeStatement(t,
		"15.01.2026 SPOTIFY 199,00 ₽\n"+
			"15.02.2026 SPOTIFY 199,00 ₽\n")

	cmd := exec.Command("go", "run", ".", path)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.Fatalf("CLI failed: %v\nStderr: %s", err, exitErr.Stderr)
		}
		t.Fatalf("CLI failed: %v", err)
	}
	if !strings.Contains(string(output), "SPOTIFY") {
		t.Errorf("expected candidate table, got: %s", output)
	}
}

func TestCLI_MissingNamedConfig(t *testing.T) {
	path := writeStatement(t, "15.01.2026 SPOTIFY 199,00 ₽\n")

	cmd := exec.Command("go", "run", ".",
		"--config", filepath.Join(t.TempDir(), "nope.yaml"), path)
	if output, err := cmd.CombinedOutput(); err == nil {
		t.Errorf("expected a nonexistent --config path to fail, got: %s", output)
	}
}

func TestCLI_NoMatchesMessage(t *testing.T) {
	path := writeStatement(t, "ничего полезного здесь нет\n")
	output := runCLI(t, path)
	if !strings.Contains(output, "No confident subscription matches found.") {
		t.Errorf("expected the empty-result message, got: %s", output)
	}
}
