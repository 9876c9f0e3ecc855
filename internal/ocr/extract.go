package ocr

import (
	"regexp"
	"strings"
)

// BillFields carries the structured values recovered from a recognized
// bill or receipt. Every field is best-effort; absent values stay empty.
type BillFields struct {
	Vendor  string   `json:"vendor,omitempty"`
	Date    string   `json:"date,omitempty"`
	Amounts []string `json:"amounts,omitempty"`
	Total   string   `json:"total,omitempty"`
}

var (
	datePattern = regexp.MustCompile(
		`\b(\d{4}-\d{2}-\d{2}|\d{1,2}[/.]\d{1,2}[/.]\d{2,4}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4})\b`)
	amountPattern = regexp.MustCompile(`(?:[$€£₹]|Rs\.?\s?)\s*\d{1,3}(?:[,\d]*\d)?(?:\.\d{1,2})?|\b\d+\.\d{2}\b`)
	totalPattern  = regexp.MustCompile(`(?i)\b(?:grand\s+)?(?:total|amount\s+due|balance\s+due)\b[^\d$€£₹]*((?:[$€£₹]|Rs\.?\s?)?\s*\d{1,3}(?:[,\d]*\d)?(?:\.\d{1,2})?)`)
)

// ExtractBillFields pulls vendor, date, line amounts, and the total from
// recognized receipt text. It is a pure function over the text; cleaning up
// the OCR output first improves the hit rate.
func ExtractBillFields(text string) BillFields {
	var fields BillFields

	if match := datePattern.FindString(text); match != "" {
		fields.Date = match
	}
	if match := totalPattern.FindStringSubmatch(text); len(match) > 1 {
		fields.Total = strings.TrimSpace(match[1])
	}
	for _, amount := range amountPattern.FindAllString(text, -1) {
		amount = strings.TrimSpace(amount)
		if amount != "" {
			fields.Amounts = append(fields.Amounts, amount)
		}
	}
	fields.Vendor = guessVendor(text)
	return fields
}

// guessVendor assumes the letterhead comes first: the vendor is the first
// line that is not a date, an amount, or boilerplate.
func guessVendor(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if datePattern.MatchString(line) || totalPattern.MatchString(line) {
			continue
		}
		if amountPattern.MatchString(line) {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "receipt") || strings.HasPrefix(lower, "invoice") || strings.HasPrefix(lower, "tax invoice") {
			continue
		}
		return line
	}
	return ""
}
