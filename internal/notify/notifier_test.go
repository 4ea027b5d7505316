package notify

import (
	"context"
	"errors"
	"testing"

	"finreview/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type recordingTransport struct {
	sent []sentMail
	err  error
}

func (r *recordingTransport) Deliver(_ context.Context, to, subject, body string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type panickingTransport struct{}

func (panickingTransport) Deliver(context.Context, string, string, string) error {
	panic("transport exploded")
}

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		ClientName:        "Jane Doe",
		OverallAssessment: "Low Risk",
		AnalysisSummary:   "Healthy account activity.",
		KeyFindings:       "Stable balance.",
		CriteriaAnalysis: []models.CriterionAnalysis{
			{Criterion: "Balance Reconciliation", Findings: "Balances match", Assessment: "Complete"},
		},
		Recommendations: "No action required.",
	}
}

func TestSendReport(t *testing.T) {
	transport := &recordingTransport{}
	notifier := NewNotifier(transport, zap.NewNop())

	ok := notifier.SendReport("jane@example.com", "January statement", sampleResult(), "bank_statement")
	require.True(t, ok)
	require.Len(t, transport.sent, 1)

	mail := transport.sent[0]
	assert.Equal(t, "jane@example.com", mail.to)
	assert.Equal(t, "Re: January statement - Financial Document Analysis Report", mail.subject)
	assert.Contains(t, mail.body, "FINANCIAL DOCUMENT ANALYSIS REPORT")
	assert.Contains(t, mail.body, "Document Type: BANK STATEMENT")
	assert.Contains(t, mail.body, "Overall Assessment: Low Risk")
}

func TestSendError(t *testing.T) {
	transport := &recordingTransport{}
	notifier := NewNotifier(transport, zap.NewNop())

	ok := notifier.SendError("jane@example.com", "January statement", "Rubric tax_return not found or could not be loaded.")
	require.True(t, ok)
	require.Len(t, transport.sent, 1)

	mail := transport.sent[0]
	assert.Equal(t, "Re: January statement - Error Processing Document", mail.subject)
	assert.Contains(t, mail.body, "(Subject: January statement)")
	assert.Contains(t, mail.body, "Rubric tax_return not found")
	assert.Contains(t, mail.body, "contact our support team")
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	transport := &recordingTransport{err: errors.New("550 mailbox unavailable")}
	notifier := NewNotifier(transport, zap.NewNop())

	assert.False(t, notifier.SendReport("jane@example.com", "subj", sampleResult(), "generic"))
	assert.False(t, notifier.SendError("jane@example.com", "subj", "boom"))
}

func TestTransportPanicIsRecovered(t *testing.T) {
	notifier := NewNotifier(panickingTransport{}, zap.NewNop())

	assert.NotPanics(t, func() {
		assert.False(t, notifier.SendReport("jane@example.com", "subj", sampleResult(), "generic"))
	})
}

func TestFormatReport(t *testing.T) {
	t.Run("all sections present", func(t *testing.T) {
		body := FormatReport(sampleResult(), "bank_statement")

		assert.Contains(t, body, "SUMMARY:\nHealthy account activity.")
		assert.Contains(t, body, "KEY FINDINGS:\nStable balance.")
		assert.Contains(t, body, "DETAILED ANALYSIS:")
		assert.Contains(t, body, "Balance Reconciliation:")
		assert.Contains(t, body, "  Findings: Balances match")
		assert.Contains(t, body, "  Assessment: Complete")
		assert.Contains(t, body, "RECOMMENDATIONS:\nNo action required.")
		assert.Contains(t, body, "This is an automated analysis.")
	})

	t.Run("red flags section only when flagged", func(t *testing.T) {
		result := sampleResult()
		assert.NotContains(t, FormatReport(result, "bank_statement"), "RED FLAGS:")

		result.RedFlags = "Repeated overdraft fees"
		flagged := FormatReport(result, "bank_statement")
		assert.Contains(t, flagged, "RED FLAGS:\nRepeated overdraft fees")
	})

	t.Run("missing fields fall back to N/A", func(t *testing.T) {
		body := FormatReport(&models.AnalysisResult{}, "generic")
		assert.Contains(t, body, "Overall Assessment: N/A")
		assert.Contains(t, body, "SUMMARY:\nN/A")
	})
}
