package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ImportSchema is the JSON shape of a plan produced by the generator
// (plan generate --dry-run --json or POST /api/llm/generate-plan). Fields
// the generator always fills are optional here so hand-written plans work.
type ImportSchema struct {
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	DurationWeeks    int               `json:"estimated_duration_weeks,omitempty"`
	WeeklyCommitment string            `json:"weekly_commitment_hours,omitempty"`
	DifficultyLevel  string            `json:"difficulty_level,omitempty"`
	Prerequisites    []string          `json:"prerequisites,omitempty"`
	StartDate        string            `json:"start_date,omitempty"`
	EndDate          string            `json:"end_date,omitempty"`
	Milestones       []MilestoneImport `json:"milestones"`

	// Error is set when the file holds a failed run instead of a plan.
	Error string `json:"error,omitempty"`
}

// MilestoneImport is one milestone of an imported plan.
type MilestoneImport struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Order       int          `json:"order,omitempty"`
	Tasks       []TaskImport `json:"tasks"`
}

// TaskImport is one task of an imported milestone.
type TaskImport struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	DueDate        string `json:"due_date,omitempty"`
	Priority       string `json:"priority,omitempty"`
	EstimatedHours int    `json:"estimated_hours,omitempty"`
	Suggestion     string `json:"ai_suggestion,omitempty"`
	Status         string `json:"status,omitempty"`
}

// LoadImportSchema reads and parses a plan import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeImportSchema(f)
}

// DecodeImportSchema parses a plan import document.
func DecodeImportSchema(r io.Reader) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.NewDecoder(r).Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
