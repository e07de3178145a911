// Package plan builds, validates, and executes multi-step lesson plans.
package plan

import (
	"encoding/json"

	"github.com/rcliao/tutor-engine/internal/model"
)

// Step is one unit of a lesson plan. Recognized fields are typed; anything
// else the model emitted passes through in Extra untouched.
type Step struct {
	ID           int
	Tool         string
	Topic        string
	Instruction  string
	Strictness   string
	Role         string
	NQuestions   int
	ReadKeys     []string
	WriteKey     string
	OutputFormat string
	Extra        map[string]any
}

// Plan is an ordered sequence of validated steps. Immutable once execution
// starts.
type Plan struct {
	Steps []Step
}

// MaxSteps is the hard cap on plan length.
const MaxSteps = 6

// recognized step fields; everything else lands in Extra.
var knownFields = map[string]bool{
	"id": true, "tool": true, "topic": true, "instruction": true,
	"strictness": true, "role": true, "n_questions": true,
	"read_keys": true, "write_key": true, "output_format": true,
}

// rawStep decodes one candidate step from the model, keeping unknown fields.
type rawStep struct {
	ID           int      `json:"id"`
	Tool         string   `json:"tool"`
	Topic        string   `json:"topic"`
	Instruction  string   `json:"instruction"`
	Strictness   string   `json:"strictness"`
	Role         string   `json:"role"`
	NQuestions   int      `json:"n_questions"`
	ReadKeys     []string `json:"read_keys"`
	WriteKey     string   `json:"write_key"`
	OutputFormat string   `json:"output_format"`

	extra map[string]any
}

func (r *rawStep) UnmarshalJSON(data []byte) error {
	type alias rawStep
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = rawStep(a)

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range all {
		if knownFields[k] {
			delete(all, k)
		}
	}
	if len(all) > 0 {
		r.extra = all
	}
	return nil
}

type rawPlan struct {
	Steps []rawStep `json:"steps"`
}

// defaultInstruction returns the canned instruction for a tool when the
// planner supplied none.
func defaultInstruction(tool string) string {
	switch tool {
	case model.ToolQuiz:
		return "Write one single-choice question testing the key point of the topic."
	case model.ToolCard:
		return "Condense the topic into a compact study card."
	case model.ToolMap:
		return "Lay out the topic's structure as a hierarchical outline."
	default:
		return "Explain the topic clearly and step by step."
	}
}

// defaultRole returns the tool-appropriate role used when the planner names
// a role outside the enum.
func defaultRole(tool string) string {
	switch tool {
	case model.ToolQuiz:
		return model.RoleComprehension
	case model.ToolCard, model.ToolMap:
		return model.RoleSummary
	default:
		return model.RoleExplanatory
	}
}
