// Package classify maps extracted document text to one of a fixed set of
// document-type tags using a keyword heuristic. No machine learning; pure
// lookup, deterministic and total.
package classify

import "strings"

const (
	TagBankStatement = "bank_statement"
	TagCreditReport  = "credit_report"
	TagGeneric       = "generic"
)

// Bank-statement keywords take priority over credit-report keywords when
// both sets match.
var bankStatementKeywords = []string{
	"bank statement",
	"account balance",
	"checking account",
}

var creditReportKeywords = []string{
	"credit report",
	"credit score",
	"fico",
	"experian",
}

// Detect returns the document-type tag for the given text, defaulting to
// TagGeneric. Matching is case-insensitive substring lookup.
func Detect(text string) string {
	lower := strings.ToLower(text)

	for _, keyword := range bankStatementKeywords {
		if strings.Contains(lower, keyword) {
			return TagBankStatement
		}
	}

	for _, keyword := range creditReportKeywords {
		if strings.Contains(lower, keyword) {
			return TagCreditReport
		}
	}

	return TagGeneric
}
