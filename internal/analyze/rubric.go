package analyze

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"finreview/internal/models"
)

//go:embed rubrics.json
var defaultRubrics []byte

// LoadRubrics returns the rubric set keyed by document-type tag. When path is
// empty the embedded default set is used.
func LoadRubrics(path string) (map[string]models.Rubric, error) {
	data := defaultRubrics
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rubrics file %s: %w", path, err)
		}
		data = fileData
	}

	var rubrics map[string]models.Rubric
	if err := json.Unmarshal(data, &rubrics); err != nil {
		return nil, fmt.Errorf("failed to parse rubrics: %w", err)
	}

	return rubrics, nil
}

// formatRubric renders a rubric into prompt text enumerating each criterion's
// title, point value, and description.
func formatRubric(rubric models.Rubric) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rubric Name: %s\n", rubric.Name)
	fmt.Fprintf(&b, "Description: %s\n\n", rubric.Description)

	for _, criterion := range rubric.Criteria {
		fmt.Fprintf(&b, "Criteria: %s (%d points)\n", criterion.Title, criterion.Points)
		fmt.Fprintf(&b, "Description: %s\n\n", criterion.Description)
	}

	return b.String()
}
