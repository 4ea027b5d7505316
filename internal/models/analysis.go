package models

import (
	"encoding/json"
	"strings"
)

// Rubric is a named scoring-criteria template selected by document type.
// Rubrics are loaded once at startup and immutable at runtime.
type Rubric struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Criteria    []RubricCriterion `json:"criteria"`
}

type RubricCriterion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// AnalysisResult is the structured output of one document analysis, parsed
// from the JSON object embedded in the model's free-form response. Missing
// keys are tolerated; downstream formatting substitutes defaults.
type AnalysisResult struct {
	ClientName        string              `json:"client_name"`
	DocumentType      string              `json:"document_type"`
	AnalysisSummary   FlexText            `json:"analysis_summary"`
	OverallAssessment string              `json:"overall_assessment"`
	KeyFindings       FlexText            `json:"key_findings"`
	CriteriaAnalysis  []CriterionAnalysis `json:"criteria_analysis"`
	RedFlags          FlexText            `json:"red_flags"`
	Recommendations   FlexText            `json:"recommendations"`
}

type CriterionAnalysis struct {
	Criterion  string   `json:"criterion"`
	Findings   FlexText `json:"findings"`
	Assessment string   `json:"assessment"`
	Notes      FlexText `json:"notes"`
}

// FlexText tolerates model output that arrives as either a JSON string or an
// array. Arrays are flattened into newline-separated text.
type FlexText string

func (t *FlexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = FlexText(s)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			var elem string
			if err := json.Unmarshal(item, &elem); err == nil {
				parts = append(parts, elem)
			} else {
				parts = append(parts, string(item))
			}
		}
		*t = FlexText(strings.Join(parts, "\n"))
		return nil
	}

	*t = FlexText(string(data))
	return nil
}

func (t FlexText) String() string {
	return string(t)
}

// Or returns the text, or fallback when the model omitted the field.
func (t FlexText) Or(fallback string) string {
	if string(t) == "" {
		return fallback
	}
	return string(t)
}
