package internal

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// xlsxColumnNames maps the header cells of supported bank XLSX exports to
// the three columns the engine needs. Both the Russian export headers and
// their plain-English equivalents are accepted.
var xlsxColumnNames = map[string]string{
	"Дата операции":  "date",
	"Дата":           "date",
	"Date":           "date",
	"Описание":       "text",
	"Description":    "text",
	"Сумма":          "amount",
	"Сумма операции": "amount",
	"Amount":         "amount",
}

// loadXLSXStatement reads transactions from a bank XLSX export. The header
// row is discovered by scanning for known column names; rows below it are fed
// through the same date/amount/currency extractors as statement text, so the
// two sources stay behaviorally identical.
func loadXLSXStatement(path string, fallbackYear int, h Heuristics) (*ImportSession, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	dateCol, textCol, amountCol := -1, -1, -1
	dataStartRow := -1
	for i, row := range rows {
		for j, cell := range row {
			switch xlsxColumnNames[strings.TrimSpace(cell)] {
			case "date":
				dateCol = j
				dataStartRow = i + 1
			case "text":
				textCol = j
			case "amount":
				amountCol = j
			}
		}
		if dateCol >= 0 && textCol >= 0 && amountCol >= 0 {
			break
		}
	}
	if dateCol < 0 || textCol < 0 || amountCol < 0 {
		return nil, fmt.Errorf("could not find required columns (date, description, amount)")
	}

	session := NewImportSession("", fallbackYear)
	for i := dataStartRow; i < len(rows); i++ {
		row := rows[i]
		maxCol := max(dateCol, textCol, amountCol)
		if len(row) <= maxCol {
			continue
		}

		dateStr := strings.TrimSpace(row[dateCol])
		text := strings.TrimSpace(row[textCol])
		amountStr := strings.TrimSpace(row[amountCol])
		if dateStr == "" || text == "" || amountStr == "" {
			continue
		}

		date, ok := parseXLSXDate(dateStr, session.FallbackYear)
		if !ok {
			session.SkippedSegments++
			continue
		}
		amount, ok := ExtractAmount(amountStr)
		if !ok {
			session.SkippedSegments++
			continue
		}
		if utf8.RuneCountInString(text) < 2 {
			session.SkippedSegments++
			continue
		}

		raw := strings.Join(row, " ")
		session.Transactions = append(session.Transactions, Transaction{
			Date:        date,
			Description: text,
			Amount:      amount,
			Currency:    DetectCurrency(raw),
			Raw:         raw,
		})
	}

	sort.SliceStable(session.Transactions, func(i, j int) bool {
		return session.Transactions[i].Date < session.Transactions[j].Date
	})
	session.Candidates = BuildCandidates(session.Transactions, h)
	return session, nil
}

// parseXLSXDate accepts either an already-ISO cell or the DD.MM.YYYY forms
// the date extractor understands.
func parseXLSXDate(s string, fallbackYear int) (string, bool) {
	if len(s) == 10 && s[4] == '-' && s[7] == '-' {
		return s, true
	}
	return ExtractDate(s, fallbackYear)
}
