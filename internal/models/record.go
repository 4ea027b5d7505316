package models

// ResultRecord is the persisted, report-shaped projection of an
// AnalysisResult plus delivery metadata. Records are append-only; every
// record traces to exactly one successful analysis.
type ResultRecord struct {
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Course         string              `json:"course"`
	GradeOutput    string              `json:"grade_output"`
	Timestamp      string              `json:"timestamp"`
	CriteriaScores []CriterionAnalysis `json:"criteria_scores"`
	DocumentType   string              `json:"document_type"`
	RedFlags       string              `json:"red_flags"`
}
