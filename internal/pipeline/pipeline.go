// Package pipeline runs one document through extraction, classification,
// analysis, persistence, and notification.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finreview/internal/analyze"
	"finreview/internal/classify"
	"finreview/internal/extract"
	"finreview/internal/models"
	"finreview/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TextExtractor turns a PDF file into plain text.
type TextExtractor interface {
	Text(path string) (string, error)
}

// Analyzer produces a structured analysis for one document.
type Analyzer interface {
	Analyze(ctx context.Context, documentText, docType string) (*models.AnalysisResult, error)
}

// Notifier dispatches the report or the error notice back to the sender.
type Notifier interface {
	SendReport(to, subject string, result *models.AnalysisResult, docType string) bool
	SendError(to, subject, errorMessage string) bool
}

type Pipeline struct {
	extractor TextExtractor
	analyzer  Analyzer
	store     store.Store
	notifier  Notifier
	logger    *zap.Logger
}

func New(extractor TextExtractor, analyzer Analyzer, st store.Store, notifier Notifier, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		analyzer:  analyzer,
		store:     st,
		notifier:  notifier,
		logger:    logger,
	}
}

// Process runs the full intake-and-response chain for one saved attachment.
// A failed analysis always yields an error email, never a persisted record; a
// failed delivery is logged by the notifier and goes no further.
func (p *Pipeline) Process(ctx context.Context, pdfPath, senderEmail, subject string) {
	logger := p.logger.With(zap.String("job_id", uuid.NewString()))

	logger.Info("Processing PDF",
		zap.String("file", pdfPath),
		zap.String("sender", senderEmail),
	)

	text, err := p.extractor.Text(pdfPath)
	if err != nil {
		logger.Error("Text extraction failed", zap.String("file", pdfPath), zap.Error(err))
		p.notifier.SendError(senderEmail, subject, fmt.Sprintf("Could not read the PDF file: %v", err))
		return
	}

	fields := extract.Fields(text)
	logger.Info("Extracted document fields",
		zap.String("client_name", fields.ClientName),
		zap.String("account_number", fields.AccountNumber),
		zap.String("statement_date", fields.StatementDate),
	)

	docType := classify.Detect(text)
	logger.Info("Detected document type", zap.String("document_type", docType))

	result, err := p.analyzer.Analyze(ctx, text, docType)
	if err != nil {
		logger.Warn("Analysis failed",
			zap.String("file", pdfPath),
			zap.String("document_type", docType),
			zap.Error(err),
		)
		p.notifier.SendError(senderEmail, subject, err.Error())
		return
	}

	record := BuildRecord(result, senderEmail, docType, time.Now())
	if err := p.store.Append(ctx, record); err != nil {
		// A persistence failure does not block the reply
		logger.Error("Failed to persist result record", zap.Error(err))
	}

	p.notifier.SendReport(senderEmail, subject, result, docType)
}

// BuildRecord flattens a successful analysis into the persisted,
// report-shaped projection.
func BuildRecord(result *models.AnalysisResult, email, docType string, now time.Time) models.ResultRecord {
	name := result.ClientName
	if name == "" {
		name = "Unknown"
	}

	gradeOutput := fmt.Sprintf(
		"Assessment: %s\n\nSummary: %s\n\nKey Findings: %s\n\nRed Flags: %s\n\nRecommendations: %s",
		orDefault(result.OverallAssessment, "Pending Review"),
		result.AnalysisSummary.Or("No summary available"),
		result.KeyFindings.Or("No findings"),
		result.RedFlags.Or("None identified"),
		result.Recommendations.Or("No recommendations"),
	)

	return models.ResultRecord{
		Name:           name,
		Email:          email,
		Course:         courseName(docType),
		GradeOutput:    gradeOutput,
		Timestamp:      now.Format(time.RFC3339),
		CriteriaScores: result.CriteriaAnalysis,
		DocumentType:   docType,
		RedFlags:       result.RedFlags.Or("None identified"),
	}
}

// courseName turns a document-type tag into its display form, e.g.
// "bank_statement" into "Bank Statement".
func courseName(docType string) string {
	words := strings.Split(strings.ReplaceAll(docType, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

var _ Analyzer = (*analyze.Analyzer)(nil)
