package internal

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DetectCurrency infers a currency symbol from raw statement text. The symbol
// set is closed: €, $ and ₽, with ₽ as the default when nothing matches.
// Detection runs on the original segment, not the stripped description, since
// stripping removes the symbols.
func DetectCurrency(s string) string {
	if strings.ContainsRune(s, '€') {
		return "€"
	}
	if strings.ContainsRune(s, '$') {
		return "$"
	}
	lower := strings.ToLower(s)
	if strings.ContainsRune(s, '₽') || strings.Contains(lower, "rub") || strings.Contains(lower, "руб") {
		return "₽"
	}
	return "₽"
}

// isoCodeForSymbol maps the engine's symbol set to ISO 4217 codes for
// locale-aware formatting.
var isoCodeForSymbol = map[string]string{
	"€": "EUR",
	"$": "USD",
	"₽": "RUB",
}

// localeForCode picks a "home" locale per currency for number formatting.
var localeForCode = map[string]language.Tag{
	"EUR": language.German,
	"USD": language.AmericanEnglish,
	"RUB": language.Russian,
}

// CurrencyFormatter formats amounts for display in one of the engine's
// supported currencies.
type CurrencyFormatter struct {
	Symbol  string
	Code    string
	printer *message.Printer
	prefix  bool
}

// FormatterForSymbol returns a formatter for one of €, $ or ₽. Unknown
// symbols fall back to the ₽ formatter, mirroring DetectCurrency's default.
func FormatterForSymbol(symbol string) CurrencyFormatter {
	code, ok := isoCodeForSymbol[symbol]
	if !ok {
		symbol, code = "₽", "RUB"
	}
	tag, ok := localeForCode[code]
	if !ok {
		tag = language.English
	}
	return CurrencyFormatter{
		Symbol:  symbol,
		Code:    code,
		printer: message.NewPrinter(tag),
		prefix:  code == "USD",
	}
}

// Format renders an amount with two fraction digits and the currency symbol
// positioned per the currency's convention.
func (c CurrencyFormatter) Format(amount float64) string {
	formatted := c.printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if c.prefix {
		return c.Symbol + formatted
	}
	return formatted + " " + c.Symbol
}

// Unit returns the ISO currency unit for the mapped code.
func (c CurrencyFormatter) Unit() currency.Unit {
	unit, err := currency.ParseISO(c.Code)
	if err != nil {
		return currency.USD
	}
	return unit
}
