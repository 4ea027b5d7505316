package dto

import "finreview/internal/models"

// UploadResponse is the AnalysisResult-shaped reply for a direct PDF upload.
type UploadResponse struct {
	Filename          string                     `json:"filename"`
	ClientName        string                     `json:"client_name"`
	DocumentType      string                     `json:"document_type"`
	OverallAssessment string                     `json:"overall_assessment"`
	AnalysisSummary   string                     `json:"analysis_summary"`
	KeyFindings       string                     `json:"key_findings"`
	RedFlags          string                     `json:"red_flags"`
	Recommendations   string                     `json:"recommendations"`
	CriteriaAnalysis  []models.CriterionAnalysis `json:"criteria_analysis"`
}

// ErrorResponse mirrors the analyzer's error shape.
type ErrorResponse struct {
	Error       string `json:"error"`
	RawResponse string `json:"raw_response,omitempty"`
}
