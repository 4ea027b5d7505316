package extract

import (
	"regexp"
	"strings"
)

// Sentinels returned when a labeled field cannot be found in the text.
const (
	UnknownClient = "Unknown Client"
	NotFound      = "Not Found"
	UnknownDate   = "Unknown Date"
)

// DocumentFields holds best-effort metadata scanned from extracted text.
// Advisory only: it is logged but not consumed by the analysis chain.
type DocumentFields struct {
	ClientName    string
	AccountNumber string
	StatementDate string
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Account Holder|Name|Client|Customer):\s*(.+)`),
	regexp.MustCompile(`(?i)(?:Primary Account Holder):\s*(.+)`),
	regexp.MustCompile(`(?i)(?:Account Name):\s*(.+)`),
}

var (
	trailingDigitsPattern = regexp.MustCompile(`\s+\d{4,}.*$`)
	accountPattern        = regexp.MustCompile(`(?i)(?:Account|Acct)\s*(?:Number|#)?\s*[:\-]?\s*([*\d]{4,})`)
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Statement Date|Report Date|As of):\s*([\d/\-]+)`),
	regexp.MustCompile(`(?i)(?:Date):\s*([\d/\-]+)`),
}

// Fields scans text with an ordered list of labeled-field patterns; the first
// match wins per field and missing matches yield fixed sentinel strings.
func Fields(text string) DocumentFields {
	fields := DocumentFields{
		ClientName:    UnknownClient,
		AccountNumber: NotFound,
		StatementDate: UnknownDate,
	}

	for _, pattern := range namePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			// Strip trailing account numbers that share the line
			name = trailingDigitsPattern.ReplaceAllString(name, "")
			fields.ClientName = name
			break
		}
	}

	if m := accountPattern.FindStringSubmatch(text); m != nil {
		fields.AccountNumber = strings.TrimSpace(m[1])
	}

	for _, pattern := range datePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			fields.StatementDate = strings.TrimSpace(m[1])
			break
		}
	}

	return fields
}
