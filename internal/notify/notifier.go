// Package notify formats analysis reports and error notices and dispatches
// them through an interchangeable mail transport.
package notify

import (
	"context"
	"fmt"
	"strings"

	"finreview/internal/models"

	"go.uber.org/zap"
)

// Transport is one outbound-mail delivery mechanism. Implementations exist
// for SMTP with a password, a transactional-email API with a key, and an
// OAuth-token-based send API.
type Transport interface {
	Deliver(ctx context.Context, to, subject, body string) error
}

type Notifier struct {
	transport Transport
	logger    *zap.Logger
}

func NewNotifier(transport Transport, logger *zap.Logger) *Notifier {
	return &Notifier{
		transport: transport,
		logger:    logger,
	}
}

// SendReport formats the fixed-section plain-text report and dispatches it.
// Delivery failure is logged, never propagated: the poll loop must not crash
// because one notification failed.
func (n *Notifier) SendReport(to, originalSubject string, result *models.AnalysisResult, docType string) bool {
	subject := fmt.Sprintf("Re: %s - Financial Document Analysis Report", originalSubject)
	body := FormatReport(result, docType)
	return n.deliver(to, subject, body)
}

// SendError formats a short apologetic notice embedding the error message and
// dispatches it through the same transport.
func (n *Notifier) SendError(to, originalSubject, errorMessage string) bool {
	subject := fmt.Sprintf("Re: %s - Error Processing Document", originalSubject)
	body := fmt.Sprintf(
		"An error occurred while processing your financial document (Subject: %s):\n\n%s\n\nPlease ensure the document is a valid PDF and try again, or contact our support team.",
		originalSubject, errorMessage,
	)
	return n.deliver(to, subject, body)
}

func (n *Notifier) deliver(to, subject, body string) (ok bool) {
	// A transport must never take the poll loop down, not even by panicking.
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Mail transport panicked", zap.Any("panic", r))
			ok = false
		}
	}()

	if err := n.transport.Deliver(context.Background(), to, subject, body); err != nil {
		n.logger.Error("Failed to deliver email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return false
	}

	n.logger.Info("Email delivered",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return true
}

// FormatReport renders the fixed-section plain-text analysis report.
func FormatReport(result *models.AnalysisResult, docType string) string {
	var b strings.Builder

	b.WriteString("FINANCIAL DOCUMENT ANALYSIS REPORT\n\n")
	fmt.Fprintf(&b, "Document Type: %s\n", strings.ToUpper(strings.ReplaceAll(docType, "_", " ")))
	fmt.Fprintf(&b, "Overall Assessment: %s\n\n", orDefault(result.OverallAssessment, "N/A"))
	fmt.Fprintf(&b, "SUMMARY:\n%s\n\n", result.AnalysisSummary.Or("N/A"))
	fmt.Fprintf(&b, "KEY FINDINGS:\n%s\n\n", result.KeyFindings.Or("N/A"))

	b.WriteString("DETAILED ANALYSIS:\n")
	for _, criterion := range result.CriteriaAnalysis {
		fmt.Fprintf(&b, "\n%s:\n", orDefault(criterion.Criterion, "N/A"))
		fmt.Fprintf(&b, "  Findings: %s\n", criterion.Findings.Or("N/A"))
		fmt.Fprintf(&b, "  Assessment: %s\n", orDefault(criterion.Assessment, "N/A"))
		if notes := criterion.Notes.String(); notes != "" {
			fmt.Fprintf(&b, "  Notes: %s\n", notes)
		}
	}

	redFlags := result.RedFlags.Or("None identified")
	if redFlags != "None identified" {
		fmt.Fprintf(&b, "\nRED FLAGS:\n%s\n", redFlags)
	}

	fmt.Fprintf(&b, "\nRECOMMENDATIONS:\n%s\n", result.Recommendations.Or("N/A"))
	b.WriteString("\n---\nThis is an automated analysis. Please review the original document for complete details.")

	return b.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
