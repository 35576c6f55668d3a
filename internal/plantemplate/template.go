// Package plantemplate decodes YAML plan templates into stage drafts for
// StageService.ImportStages.
//
// A template looks like:
//
//	name: Four week taper
//	stages:
//	  - title: Cut down
//	    start_date: 2024-01-01
//	    end_date: 2024-01-31
//	    tasks:
//	      - title: Log every cigarette
//	        deadline: 2024-01-07
package plantemplate

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/quitplan/internal/ports/primary"
)

// Template is a named list of stages with their tasks.
type Template struct {
	Name   string  `yaml:"name"`
	Stages []Stage `yaml:"stages"`
}

// Stage is one stage entry of a template.
type Stage struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	StartDate   string `yaml:"start_date"`
	EndDate     string `yaml:"end_date"`
	Tasks       []Task `yaml:"tasks"`
}

// Task is one task entry of a stage, kept in file order.
type Task struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Deadline    string `yaml:"deadline"`
}

// Parse decodes and validates a template payload.
// Date ordering is left to the stage sequencer.
func Parse(data []byte) (*Template, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("plantemplate: payload is empty")
	}

	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("plantemplate: decode: %w", err)
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// LoadFile reads and parses a template from disk.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plantemplate: read %s: %w", path, err)
	}
	tpl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("plantemplate: %s: %w", path, err)
	}
	return tpl, nil
}

// Validate checks the fields every stage and task needs.
func (t *Template) Validate() error {
	if len(t.Stages) == 0 {
		return fmt.Errorf("plantemplate: no stages")
	}
	for i, st := range t.Stages {
		if strings.TrimSpace(st.Title) == "" {
			return fmt.Errorf("plantemplate: stage %d: title is required", i+1)
		}
		if st.StartDate == "" || st.EndDate == "" {
			return fmt.Errorf("plantemplate: stage %d (%s): start_date and end_date are required", i+1, st.Title)
		}
		for j, tk := range st.Tasks {
			if strings.TrimSpace(tk.Title) == "" {
				return fmt.Errorf("plantemplate: stage %d task %d: title is required", i+1, j+1)
			}
		}
	}
	return nil
}

// Drafts converts the template into import drafts.
func (t *Template) Drafts() []primary.StageDraft {
	drafts := make([]primary.StageDraft, len(t.Stages))
	for i, st := range t.Stages {
		tasks := make([]primary.TaskDraft, len(st.Tasks))
		for j, tk := range st.Tasks {
			tasks[j] = primary.TaskDraft{
				Title:       tk.Title,
				Description: tk.Description,
				Deadline:    tk.Deadline,
			}
		}
		drafts[i] = primary.StageDraft{
			Title:       st.Title,
			Description: st.Description,
			StartDate:   st.StartDate,
			EndDate:     st.EndDate,
			Tasks:       tasks,
		}
	}
	return drafts
}
