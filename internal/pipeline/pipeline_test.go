package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finreview/internal/analyze"
	"finreview/internal/models"
	"finreview/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) Text(string) (string, error) {
	return s.text, s.err
}

type stubAnalyzer struct {
	result  *models.AnalysisResult
	err     error
	docType string
}

func (s *stubAnalyzer) Analyze(_ context.Context, _, docType string) (*models.AnalysisResult, error) {
	s.docType = docType
	return s.result, s.err
}

type recordingNotifier struct {
	reports []string
	errs    []string
}

func (r *recordingNotifier) SendReport(to, _ string, _ *models.AnalysisResult, _ string) bool {
	r.reports = append(r.reports, to)
	return true
}

func (r *recordingNotifier) SendError(to, _, msg string) bool {
	r.errs = append(r.errs, msg)
	return true
}

func TestProcess_Success(t *testing.T) {
	extractor := stubExtractor{text: "Bank Statement\nAccount Balance: $5,000\nChecking Account"}
	analyzer := &stubAnalyzer{result: &models.AnalysisResult{
		ClientName:        "Jane Doe",
		OverallAssessment: "Low Risk",
	}}
	st := store.NewFileStore(filepath.Join(t.TempDir(), "results.json"), zap.NewNop())
	notifier := &recordingNotifier{}

	p := New(extractor, analyzer, st, notifier, zap.NewNop())
	p.Process(context.Background(), "/tmp/statement.pdf", "jane@example.com", "January statement")

	assert.Equal(t, "bank_statement", analyzer.docType)
	assert.Equal(t, []string{"jane@example.com"}, notifier.reports)
	assert.Empty(t, notifier.errs)

	records, err := st.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", records[0].Name)
	assert.Equal(t, "jane@example.com", records[0].Email)
	assert.Equal(t, "Bank Statement", records[0].Course)
	assert.Equal(t, "bank_statement", records[0].DocumentType)
	assert.Contains(t, records[0].GradeOutput, "Assessment: Low Risk")
}

func TestProcess_AnalysisFailure(t *testing.T) {
	extractor := stubExtractor{text: "some unclassifiable text"}
	analyzer := &stubAnalyzer{err: &analyze.Error{Message: "Rubric generic not found or could not be loaded."}}
	st := store.NewFileStore(filepath.Join(t.TempDir(), "results.json"), zap.NewNop())
	notifier := &recordingNotifier{}

	p := New(extractor, analyzer, st, notifier, zap.NewNop())
	p.Process(context.Background(), "/tmp/doc.pdf", "jane@example.com", "Please review")

	assert.Empty(t, notifier.reports)
	require.Len(t, notifier.errs, 1)
	assert.Contains(t, notifier.errs[0], "Rubric generic not found")

	records, err := st.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records, "a failed analysis must not persist a record")
}

func TestProcess_ExtractionFailure(t *testing.T) {
	extractor := stubExtractor{err: errors.New("not a PDF")}
	analyzer := &stubAnalyzer{}
	st := store.NewFileStore(filepath.Join(t.TempDir(), "results.json"), zap.NewNop())
	notifier := &recordingNotifier{}

	p := New(extractor, analyzer, st, notifier, zap.NewNop())
	p.Process(context.Background(), "/tmp/doc.pdf", "jane@example.com", "Please review")

	assert.Empty(t, notifier.reports)
	require.Len(t, notifier.errs, 1)
	assert.Contains(t, notifier.errs[0], "Could not read the PDF file")
	assert.Empty(t, analyzer.docType, "analyzer must not run on failed extraction")
}

func TestBuildRecord(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("full result", func(t *testing.T) {
		result := &models.AnalysisResult{
			ClientName:        "Jane Doe",
			OverallAssessment: "Low Risk",
			AnalysisSummary:   "Healthy account.",
			KeyFindings:       "Stable balance.",
			RedFlags:          "None identified",
			Recommendations:   "No action required.",
			CriteriaAnalysis: []models.CriterionAnalysis{
				{Criterion: "Balance Reconciliation", Assessment: "Complete"},
			},
		}

		record := BuildRecord(result, "jane@example.com", "credit_report", now)
		assert.Equal(t, "Jane Doe", record.Name)
		assert.Equal(t, "Credit Report", record.Course)
		assert.Equal(t, "2024-03-01T12:00:00Z", record.Timestamp)
		assert.Len(t, record.CriteriaScores, 1)
		assert.Contains(t, record.GradeOutput, "Assessment: Low Risk")
		assert.Contains(t, record.GradeOutput, "Summary: Healthy account.")
		assert.Contains(t, record.GradeOutput, "Key Findings: Stable balance.")
	})

	t.Run("empty result gets defaults", func(t *testing.T) {
		record := BuildRecord(&models.AnalysisResult{}, "", "generic", now)
		assert.Equal(t, "Unknown", record.Name)
		assert.Equal(t, "Generic", record.Course)
		assert.Equal(t, "None identified", record.RedFlags)
		assert.Contains(t, record.GradeOutput, "Assessment: Pending Review")
		assert.Contains(t, record.GradeOutput, "Summary: No summary available")
		assert.Contains(t, record.GradeOutput, "Red Flags: None identified")
	})
}
