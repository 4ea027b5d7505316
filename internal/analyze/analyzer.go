// Package analyze builds a rubric-driven prompt for a financial document,
// invokes the language model once, and parses the JSON object embedded in the
// free-form response.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"finreview/internal/models"

	"go.uber.org/zap"
)

// Generator is the language-model collaborator: one prompt in, free-form
// response text out. No structured-output mode is assumed.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Error is a failed analysis. RawResponse carries the full model response
// when one was received but could not be parsed.
type Error struct {
	Message     string `json:"error"`
	RawResponse string `json:"raw_response,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

type Analyzer struct {
	generator Generator
	rubrics   map[string]models.Rubric
	logger    *zap.Logger
}

func NewAnalyzer(generator Generator, rubrics map[string]models.Rubric, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		generator: generator,
		rubrics:   rubrics,
		logger:    logger,
	}
}

// responseSchema is the JSON shape the model is instructed to return.
const responseSchema = `{
    "client_name": "[Client/Account holder name, extracted from document if possible, otherwise 'Unknown']",
    "document_type": "[Type of document: Bank Statement, Credit Report, or Other Financial Document]",
    "analysis_summary": "[Brief summary of document analysis and key findings]",
    "overall_assessment": "[Overall risk assessment: Low Risk, Moderate Risk, High Risk, or Requires Review]",
    "key_findings": "[List of critical findings, extracted data, and important numbers]",
    "criteria_analysis": [
        {
            "criterion": "[Criterion Name]",
            "findings": "[Specific findings for this criterion with actual data and numbers]",
            "assessment": "[Assessment: Complete, Incomplete, or Concerning]",
            "notes": "[Additional notes or recommendations]"
        }
    ],
    "red_flags": "[Any concerning items, inconsistencies, or items requiring legal review]",
    "recommendations": "[Recommended next steps or actions for the legal team]"
}`

// Analyze resolves docType to a rubric, invokes the model once, and returns
// the parsed result. Every failure mode returns a *Error; the method never
// panics. The document text is embedded in full regardless of length, which
// is a known scaling limit.
func (a *Analyzer) Analyze(ctx context.Context, documentText, docType string) (*models.AnalysisResult, error) {
	rubric, ok := a.rubrics[docType]
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("Rubric %s not found or could not be loaded.", docType)}
	}

	prompt := buildPrompt(formatRubric(rubric), documentText)

	raw, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("LLM request failed", zap.String("document_type", docType), zap.Error(err))
		return nil, &Error{Message: fmt.Sprintf("Error during analysis: %v", err)}
	}

	jsonStr, ok := extractJSON(raw)
	if !ok {
		a.logger.Warn("No JSON object found in model response", zap.Int("response_length", len(raw)))
		return nil, &Error{Message: "No valid JSON object found in AI response", RawResponse: raw}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		a.logger.Warn("Failed to parse model response as JSON", zap.Error(err))
		return nil, &Error{
			Message:     fmt.Sprintf("Failed to parse AI response as JSON: %v", err),
			RawResponse: raw,
		}
	}

	a.logger.Info("Document analysis completed",
		zap.String("document_type", docType),
		zap.String("overall_assessment", result.OverallAssessment),
	)

	return &result, nil
}

func buildPrompt(rubricText, documentText string) string {
	return fmt.Sprintf(`You are an AI assistant acting as a Senior Financial Analyst and Legal Document Reviewer working for a law firm. Your task is to analyze financial documents (bank statements, credit reports, etc.) based on the provided analysis criteria.

Here are the analysis criteria for this document:
%s

Here is the financial document to analyze:
%s

Please provide a detailed analysis based on the criteria above. Extract ALL relevant financial data including:
- Account/personal information
- Specific dollar amounts, balances, and transactions
- Dates and time periods
- Payment histories and patterns
- Any red flags or concerning items
- Credit scores, limits, and utilization (for credit reports)
- Income and expense patterns (for bank statements)

Your response MUST be a valid JSON object ONLY. Do NOT include any other text, explanations, or formatting outside the JSON object.
Be thorough and extract actual numbers and data from the document.
The JSON object should strictly follow this format:
%s`, rubricText, documentText, responseSchema)
}

// extractJSON locates the substring between the first '{' and the last '}'.
// The heuristic is fragile against braces in surrounding prose; it is kept
// deliberately and isolated here so a structured-output strategy can replace
// it without touching callers.
func extractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
