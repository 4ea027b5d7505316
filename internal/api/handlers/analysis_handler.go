package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"finreview/internal/analyze"
	"finreview/internal/classify"
	"finreview/internal/dto"
	"finreview/internal/models"
	"finreview/internal/pipeline"
	"finreview/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AnalysisHandler exposes the document pipeline over HTTP: direct PDF upload
// through the same extract, classify, analyze, persist chain the inbox poller
// uses, minus the notifier.
type AnalysisHandler struct {
	extractor   pipeline.TextExtractor
	analyzer    pipeline.Analyzer
	store       store.Store
	incomingDir string
	logger      *zap.Logger
}

func NewAnalysisHandler(
	extractor pipeline.TextExtractor,
	analyzer pipeline.Analyzer,
	st store.Store,
	incomingDir string,
	logger *zap.Logger,
) *AnalysisHandler {
	if err := os.MkdirAll(incomingDir, 0o755); err != nil {
		logger.Warn("Failed to create incoming directory", zap.Error(err))
	}

	return &AnalysisHandler{
		extractor:   extractor,
		analyzer:    analyzer,
		store:       st,
		incomingDir: incomingDir,
		logger:      logger,
	}
}

// UploadPDF handles POST /upload-pdf: multipart file plus an optional
// document_type (default "auto" → keyword classifier).
func (h *AnalysisHandler) UploadPDF(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	// Attachments are keyed by filename; an identical name overwrites.
	path := filepath.Join(h.incomingDir, filepath.Base(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, path); err != nil {
		h.logger.Error("Failed to save uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save file",
		})
	}

	text, err := h.extractor.Text(path)
	if err != nil {
		h.logger.Warn("Failed to extract text from upload",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Could not read the PDF file",
		})
	}

	docType := c.FormValue("document_type", "auto")
	if docType == "" || docType == "auto" {
		docType = classify.Detect(text)
	}

	result, err := h.analyzer.Analyze(c.Context(), text, docType)
	if err != nil {
		var analysisErr *analyze.Error
		if errors.As(err, &analysisErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error:       analysisErr.Message,
				RawResponse: analysisErr.RawResponse,
			})
		}
		h.logger.Error("Analysis failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Analysis failed",
		})
	}

	// Email is not available for a direct upload
	record := pipeline.BuildRecord(result, "", docType, time.Now())
	if err := h.store.Append(c.Context(), record); err != nil {
		h.logger.Error("Failed to persist result record", zap.Error(err))
	}

	return c.JSON(dto.UploadResponse{
		Filename:          fileHeader.Filename,
		ClientName:        orDefault(result.ClientName, "Unknown"),
		DocumentType:      orDefault(result.DocumentType, docType),
		OverallAssessment: orDefault(result.OverallAssessment, "Pending Review"),
		AnalysisSummary:   result.AnalysisSummary.Or("No analysis available"),
		KeyFindings:       result.KeyFindings.Or("No findings"),
		RedFlags:          result.RedFlags.Or("None identified"),
		Recommendations:   result.Recommendations.Or("No recommendations"),
		CriteriaAnalysis:  result.CriteriaAnalysis,
	})
}

// Results handles GET /results: the full persisted list in insertion order.
func (h *AnalysisHandler) Results(c *fiber.Ctx) error {
	records, err := h.store.ReadAll(c.Context())
	if err != nil {
		h.logger.Error("Failed to read results", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read results",
		})
	}

	if records == nil {
		records = []models.ResultRecord{}
	}

	return c.JSON(records)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
