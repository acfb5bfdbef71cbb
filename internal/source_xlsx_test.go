package internal

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// createTestXLSX writes a minimal bank-export xlsx with the given header row
// and data rows.
func createTestXLSX(t *testing.T, path string, header []string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for j, cell := range header {
		col, _ := excelize.ColumnNumberToName(j + 1)
		f.SetCellValue(sheet, fmt.Sprintf("%s1", col), cell)
	}
	for i, row := range rows {
		for j, cell := range row {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, i+2), cell)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to create test xlsx: %v", err)
	}
}

func TestXLSXSource(t *testing.T) {
	h := DefaultHeuristics()

	t.Run("russian headers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.xlsx")
		createTestXLSX(t, path,
			[]string{"Дата операции", "Описание", "Сумма"},
			[][]string{
				{"15.02.2026", "NETFLIX.COM", "-399,00 ₽"},
				{"15.01.2026", "NETFLIX.COM", "-399,00 ₽"},
				{"", "", ""},
			})

		session, err := loadXLSXStatement(path, 0, h)
		if err != nil {
			t.Fatalf("loadXLSXStatement: %v", err)
		}
		if len(session.Transactions) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(session.Transactions))
		}
		if session.Transactions[0].Date != "2026-01-15" {
			t.Errorf("transactions not sorted: first is %q", session.Transactions[0].Date)
		}
		if session.Transactions[0].Amount != 399 || session.Transactions[0].Currency != "₽" {
			t.Errorf("amount/currency = %v %q, want 399 ₽",
				session.Transactions[0].Amount, session.Transactions[0].Currency)
		}
		if len(session.Candidates) != 1 || session.Candidates[0].Key != "netflix com" {
			t.Errorf("unexpected candidates: %+v", session.Candidates)
		}
	})

	t.Run("english headers with iso dates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.xlsx")
		createTestXLSX(t, path,
			[]string{"Date", "Description", "Amount"},
			[][]string{
				{"2026-01-15", "SPOTIFY", "199.00"},
			})

		session, err := loadXLSXStatement(path, 0, h)
		if err != nil {
			t.Fatalf("loadXLSXStatement: %v", err)
		}
		if len(session.Transactions) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(session.Transactions))
		}
		if session.Transactions[0].Date != "2026-01-15" {
			t.Errorf("iso date not passed through: %q", session.Transactions[0].Date)
		}
	})

	t.Run("counts unparseable rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.xlsx")
		createTestXLSX(t, path,
			[]string{"Дата", "Описание", "Сумма"},
			[][]string{
				{"не дата", "SPOTIFY", "199,00"},
				{"15.01.2026", "SPOTIFY", "199,00"},
			})

		session, err := loadXLSXStatement(path, 0, h)
		if err != nil {
			t.Fatalf("loadXLSXStatement: %v", err)
		}
		if session.SkippedSegments != 1 {
			t.Errorf("skipped = %d, want 1", session.SkippedSegments)
		}
		if len(session.Transactions) != 1 {
			t.Errorf("expected 1 transaction, got %d", len(session.Transactions))
		}
	})

	t.Run("missing columns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.xlsx")
		createTestXLSX(t, path,
			[]string{"Something", "Else"},
			[][]string{{"a", "b"}})

		if _, err := loadXLSXStatement(path, 0, h); err == nil {
			t.Error("expected an error when required columns are missing")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadXLSXStatement(filepath.Join(t.TempDir(), "nope.xlsx"), 0, h); err == nil {
			t.Error("expected an error for a missing file")
		}
	})
}
